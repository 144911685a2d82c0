package cmd

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rengenols/dispatch/dispatch"
	"github.com/rengenols/dispatch/dispatch/store/memory"
	"github.com/rengenols/dispatch/dispatch/store/postgres"
)

// ports bundles the three store-backed ports; both store implementations
// satisfy all of them.
type ports interface {
	dispatch.StudyReader
	dispatch.DoctorReader
	dispatch.AssignmentWriter
}

// openStore selects the backing store from the --dsn flag: Postgres when a
// DSN is given, otherwise a seeded in-memory demo store.
func openStore(cfg dispatch.Config) (ports, func(), error) {
	if dsn != "" {
		store, err := postgres.Open(dsn)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logrus.Warnf("close store: %v", err)
			}
		}, nil
	}

	logrus.Info("no DSN given; using seeded in-memory demo store")
	store := memory.NewStore()
	memory.Seed(store, time.Now().In(cfg.Location()))
	return store, func() {}, nil
}

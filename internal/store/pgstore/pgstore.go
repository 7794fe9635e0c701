// Package pgstore implements store.Store on PostgreSQL through the generic sqlx
// repositories of each domain.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slotwise/infras/otel"
	"slotwise/infras/postgres"
	availabilityRepo "slotwise/internal/domains/availability/repository"
	bookingRepo "slotwise/internal/domains/booking/repository"
	catalogRepo "slotwise/internal/domains/catalog/repository"
	leadRepo "slotwise/internal/domains/lead/repository"
	"slotwise/internal/store"
	"slotwise/shared/constant"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const advisoryLockQuery = "SELECT pg_advisory_xact_lock(hashtext($1))"

type repositories struct {
	business     catalogRepo.Business
	offering     catalogRepo.Offering
	item         catalogRepo.ServiceItem
	staff        catalogRepo.Staff
	assignment   catalogRepo.Assignment
	rule         availabilityRepo.Availability
	booking      bookingRepo.Booking
	bookingStaff bookingRepo.StaffAssignment
	bookingItem  bookingRepo.ServiceItem
	event        bookingRepo.Event
	lead         leadRepo.Lead
}

func (r repositories) withTx(tx *sqlx.Tx) repositories {
	return repositories{
		business:     r.business.WithTx(tx),
		offering:     r.offering.WithTx(tx),
		item:         r.item.WithTx(tx),
		staff:        r.staff.WithTx(tx),
		assignment:   r.assignment.WithTx(tx),
		rule:         r.rule.WithTx(tx),
		booking:      r.booking.WithTx(tx),
		bookingStaff: r.bookingStaff.WithTx(tx),
		bookingItem:  r.bookingItem.WithTx(tx),
		event:        r.event.WithTx(tx),
		lead:         r.lead.WithTx(tx),
	}
}

type Store struct {
	queries
	db   *postgres.Connection
	otel otel.Otel
}

var _ store.Store = (*Store)(nil)

func New(db *postgres.Connection, otel otel.Otel) *Store {
	return &Store{
		queries: queries{repos: repositories{
			business:     catalogRepo.NewBusiness(db, otel),
			offering:     catalogRepo.NewOffering(db, otel),
			item:         catalogRepo.NewServiceItem(db, otel),
			staff:        catalogRepo.NewStaff(db, otel),
			assignment:   catalogRepo.NewAssignment(db, otel),
			rule:         availabilityRepo.New(db, otel),
			booking:      bookingRepo.New(db, otel),
			bookingStaff: bookingRepo.NewStaffAssignment(db, otel),
			bookingItem:  bookingRepo.NewServiceItem(db, otel),
			event:        bookingRepo.NewEvent(db, otel),
			lead:         leadRepo.New(db, otel),
		}},
		db:   db,
		otel: otel,
	}
}

// InTx implements store.Store.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".InTx")
	defer scope.End()

	err := s.run(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		return fn(ctx, &queries{repos: s.repos.withTx(tx)})
	})
	scope.TraceIfError(err)

	return err
}

// InDayLock implements store.Store. Locks are taken in key order so two
// transactions over overlapping day sets cannot deadlock.
func (s *Store) InDayLock(ctx context.Context, tenantID string, days []string, fn func(ctx context.Context, tx store.Tx) error) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".InDayLock")
	defer scope.End()

	keys := store.LockKeys(tenantID, days)
	scope.SetAttribute("lock.keys", keys)

	err := s.run(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx, advisoryLockQuery, key); err != nil {
				return fmt.Errorf("failed to acquire day lock %s: %w", key, err)
			}
		}

		return fn(ctx, &queries{repos: s.repos.withTx(tx)})
	})
	scope.TraceIfError(err)

	return err
}

func (s *Store) run(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.Write.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		log.Error().Err(err).Msg("failed to begin transaction")

		return mapError(ctx, fmt.Errorf("failed to begin transaction: %w", err))
	}

	defer func() {
		if err == nil {
			return
		}

		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return mapError(ctx, err)
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Msg("failed to commit transaction")

		return mapError(ctx, fmt.Errorf("failed to commit transaction: %w", err))
	}

	return nil
}

// Seed implements store.Store. Tenants that already exist are left untouched.
func (s *Store) Seed(ctx context.Context, fixture store.Fixture) error {
	return s.run(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		repos := s.repos.withTx(tx)
		fresh := map[string]bool{}

		for _, business := range fixture.Businesses {
			exist, err := repos.business.Exist(ctx, byTenantID(business.ID))
			if err != nil {
				return fmt.Errorf("failed to check business %s: %w", business.ID, err)
			}

			if exist {
				log.Info().Str("tenant", business.ID).Msg("tenant already seeded, skipping")

				continue
			}

			if err := repos.business.Insert(ctx, business); err != nil {
				return fmt.Errorf("failed to seed business %s: %w", business.ID, err)
			}

			fresh[business.ID] = true
		}

		for _, offering := range fixture.Offerings {
			if fresh[offering.TenantID] {
				if err := repos.offering.Insert(ctx, offering); err != nil {
					return fmt.Errorf("failed to seed offering %s: %w", offering.ID, err)
				}
			}
		}

		for _, item := range fixture.ServiceItems {
			if fresh[item.TenantID] {
				if err := repos.item.Insert(ctx, item); err != nil {
					return fmt.Errorf("failed to seed service item %s: %w", item.ID, err)
				}
			}
		}

		for _, staff := range fixture.Staff {
			if fresh[staff.TenantID] {
				if err := repos.staff.Insert(ctx, staff); err != nil {
					return fmt.Errorf("failed to seed staff %s: %w", staff.ID, err)
				}
			}
		}

		for _, assignment := range fixture.Assignments {
			if fresh[assignment.TenantID] {
				if err := repos.assignment.Insert(ctx, assignment); err != nil {
					return fmt.Errorf("failed to seed assignment %s: %w", assignment.ID, err)
				}
			}
		}

		for _, rule := range fixture.Rules {
			if fresh[rule.TenantID] {
				if err := repos.rule.Insert(ctx, rule); err != nil {
					return fmt.Errorf("failed to seed availability rule %s: %w", rule.ID, err)
				}
			}
		}

		return nil
	})
}

// Ping implements store.Store.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// mapError folds lost races into store.ErrConflict and keeps context errors
// recognisable after the driver has wrapped them.
func mapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case constant.PqErrorCodeSerializationFailure, constant.PqErrorCodeDeadlockDetected,
			constant.PqErrorCodeUniqueViolation, constant.PqErrorCodeExclusionViolation:
			return fmt.Errorf("%w: %s", store.ErrConflict, pqErr.Message)
		case constant.PqErrorCodeQueryCanceled:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("%w: %s", ctxErr, pqErr.Message)
			}
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}

	return err
}

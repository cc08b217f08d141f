//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"giftcard-fulfillment/internal/infra"
	"giftcard-fulfillment/internal/infra/db"
	"giftcard-fulfillment/internal/infra/repository"
	"giftcard-fulfillment/internal/infra/uow"
	"giftcard-fulfillment/internal/pkg/config"
	"giftcard-fulfillment/internal/usecase"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testUser     = "test"
	testPassword = "testpass"
	testDBName   = "giftcards_test"
)

type GiftCodeRepositorySuite struct {
	suite.Suite
	container testcontainers.Container
	pool      *pgxpool.Pool
	uow       usecase.UnitOfWork
	repo      *repository.GiftCodeRepository
}

func TestGiftCodeRepositorySuite(t *testing.T) {
	suite.Run(t, new(GiftCodeRepositorySuite))
}

func (s *GiftCodeRepositorySuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
			"POSTGRES_DB":       testDBName,
		},
		Tmpfs: map[string]string{
			"/var/lib/postgresql/data": "rw,size=256m",
		},
		Cmd: []string{"postgres", "-c", "fsync=off", "-c", "synchronous_commit=off"},
		WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
			return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
				testUser, testPassword, host, port.Port(), testDBName)
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(ctx)
	require.NoError(s.T(), err)
	mappedPort, err := container.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(s.T(), err)

	dbConfig := newTestDBConfig(host, mappedPort.Port())
	pool, _, err := db.Connect(dbConfig)
	require.NoError(s.T(), err)
	s.pool = pool

	require.NoError(s.T(), applyMigrations(ctx, pool))

	s.uow = uow.NewPostgresUoW(pool)
	s.repo = repository.NewGiftCodeRepository()
}

func (s *GiftCodeRepositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.container.Terminate(ctx)
	}
}

func (s *GiftCodeRepositorySuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE gift_codes, webhook_events RESTART IDENTITY")
	require.NoError(s.T(), err)
}

func (s *GiftCodeRepositorySuite) seed(denomination int, codes ...string) {
	err := s.uow.Within(context.Background(), func(ctx context.Context, dbtx db.DBTX) error {
		_, err := s.repo.InsertBatch(ctx, dbtx, denomination, codes)
		return err
	})
	require.NoError(s.T(), err)
}

func (s *GiftCodeRepositorySuite) TestInsertBatch() {
	ctx := context.Background()

	s.Run("inserts new codes", func() {
		var inserted int64
		err := s.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
			var err error
			inserted, err = s.repo.InsertBatch(ctx, dbtx, 100, []string{"GC-1", "GC-2"})
			return err
		})
		s.Require().NoError(err)
		s.Equal(int64(2), inserted)
	})

	s.Run("duplicate codes do not count as inserted", func() {
		var inserted int64
		err := s.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
			var err error
			inserted, err = s.repo.InsertBatch(ctx, dbtx, 100, []string{"GC-1", "GC-3"})
			return err
		})
		s.Require().NoError(err)
		s.Equal(int64(1), inserted)
	})
}

func (s *GiftCodeRepositorySuite) TestClaimNext() {
	ctx := context.Background()
	s.seed(100, "GC-1", "GC-2")
	s.seed(200, "GC-3")

	s.Run("claims the oldest unused code of the denomination", func() {
		err := s.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
			view, err := s.repo.ClaimNext(ctx, dbtx, 100, "500")
			if err != nil {
				return err
			}
			s.Equal("GC-1", view.Code)
			s.Require().NotNil(view.AssignedOrderRef)
			s.Equal("500", *view.AssignedOrderRef)
			s.NotNil(view.AssignedAt)
			return nil
		})
		s.Require().NoError(err)
	})

	s.Run("drained denomination reports KindNotFound", func() {
		err := s.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
			if _, err := s.repo.ClaimNext(ctx, dbtx, 200, "500"); err != nil {
				return err
			}
			_, err := s.repo.ClaimNext(ctx, dbtx, 200, "500")
			s.True(infra.IsKind(err, infra.KindNotFound))
			return nil
		})
		s.Require().NoError(err)
	})

	s.Run("concurrent claims never hand out the same code", func() {
		s.seed(300, "C-01", "C-02", "C-03", "C-04", "C-05", "C-06", "C-07", "C-08", "C-09", "C-10")

		const workers = 10
		var wg sync.WaitGroup
		codes := make([]string, workers)
		errs := make([]error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = s.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
					orderRef := fmt.Sprintf("order-%d", i)
					if err := s.repo.LockOrder(ctx, dbtx, orderRef); err != nil {
						return err
					}
					view, err := s.repo.ClaimNext(ctx, dbtx, 300, orderRef)
					if err != nil {
						return err
					}
					codes[i] = view.Code
					return nil
				})
			}(i)
		}
		wg.Wait()

		seen := map[string]bool{}
		for i := 0; i < workers; i++ {
			s.Require().NoError(errs[i])
			s.False(seen[codes[i]], "code %s claimed twice", codes[i])
			seen[codes[i]] = true
		}
	})
}

func (s *GiftCodeRepositorySuite) TestCountAndFindAssigned() {
	ctx := context.Background()
	s.seed(100, "GC-1", "GC-2", "GC-3")

	err := s.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		for i := 0; i < 2; i++ {
			if _, err := s.repo.ClaimNext(ctx, dbtx, 100, "500"); err != nil {
				return err
			}
		}
		return nil
	})
	s.Require().NoError(err)

	err = s.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		count, err := s.repo.CountAssigned(ctx, dbtx, "500", 100)
		if err != nil {
			return err
		}
		s.Equal(2, count)

		views, err := s.repo.FindAssigned(ctx, dbtx, "500")
		if err != nil {
			return err
		}
		s.Len(views, 2)
		s.Equal("GC-1", views[0].Code)
		return nil
	})
	s.Require().NoError(err)
}

func (s *GiftCodeRepositorySuite) TestUpdateDenomination() {
	ctx := context.Background()
	s.seed(100, "GC-1", "GC-2")

	s.Run("updates an unassigned code", func() {
		err := s.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
			return s.repo.UpdateDenomination(ctx, dbtx, 1, 300)
		})
		s.Require().NoError(err)
	})

	s.Run("missing ID reports KindNotFound", func() {
		err := s.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
			return s.repo.UpdateDenomination(ctx, dbtx, 9999, 300)
		})
		s.True(infra.IsKind(err, infra.KindNotFound))
	})

	s.Run("assigned code reports KindConflict", func() {
		err := s.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
			if _, err := s.repo.ClaimNext(ctx, dbtx, 100, "500"); err != nil {
				return err
			}
			return nil
		})
		s.Require().NoError(err)

		err = s.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
			return s.repo.UpdateDenomination(ctx, dbtx, 2, 300)
		})
		s.True(infra.IsKind(err, infra.KindConflict))
	})
}

func (s *GiftCodeRepositorySuite) TestListAndCounts() {
	ctx := context.Background()
	s.seed(100, "GC-1", "GC-2")
	s.seed(200, "GC-3")

	err := s.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		_, err := s.repo.ClaimNext(ctx, dbtx, 100, "500")
		return err
	})
	s.Require().NoError(err)

	err = s.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		denom := 100
		views, err := s.repo.List(ctx, dbtx, usecase.CodeFilter{Denomination: &denom, Status: usecase.CodeStatusAvailable})
		if err != nil {
			return err
		}
		s.Len(views, 1)
		s.Equal("GC-2", views[0].Code)

		counts, err := s.repo.CountByDenomination(ctx, dbtx)
		if err != nil {
			return err
		}
		s.Require().Len(counts, 2)
		s.Equal(usecase.DenominationCount{Denomination: 100, Total: 2, Assigned: 1, Available: 1}, counts[0])
		s.Equal(usecase.DenominationCount{Denomination: 200, Total: 1, Assigned: 0, Available: 1}, counts[1])
		return nil
	})
	s.Require().NoError(err)
}

func (s *GiftCodeRepositorySuite) TestAuditRepository() {
	ctx := context.Background()
	audit := repository.NewAuditRepository()

	for i := 0; i < 3; i++ {
		record := usecase.AuditRecord{
			ID:          uuid.New(),
			EventType:   "order_webhook",
			Status:      "processed",
			Message:     fmt.Sprintf("assigned %d new code(s)", i),
			OrderID:     "A1",
			OrderSerial: "500",
			Payload:     `{"order":{}}`,
			CreatedAt:   time.Now().Add(time.Duration(i) * time.Second),
		}
		err := s.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
			return audit.Insert(ctx, dbtx, record)
		})
		s.Require().NoError(err)
	}

	err := s.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		records, err := audit.Recent(ctx, dbtx, 2)
		if err != nil {
			return err
		}
		s.Require().Len(records, 2)
		s.Equal("assigned 2 new code(s)", records[0].Message)
		s.Equal("assigned 1 new code(s)", records[1].Message)
		return nil
	})
	s.Require().NoError(err)
}

func newTestDBConfig(host, port string) config.DBConfig {
	return config.DBConfig{
		Host:     host,
		Port:     port,
		User:     testUser,
		Password: testPassword,
		DBName:   testDBName,
		SSLMode:  "disable",
	}
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	candidates := []string{
		filepath.Join("migrations", "0001_init.sql"),
		filepath.Join("..", "..", "..", "migrations", "0001_init.sql"),
	}
	for _, cand := range candidates {
		sqlContent, err := os.ReadFile(cand)
		if err != nil {
			continue
		}
		_, err = pool.Exec(ctx, string(sqlContent))
		return err
	}
	return fmt.Errorf("migration file not found")
}

package salary_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salary-portal/internal/core/cache"
	"salary-portal/internal/feature/salary"
)

func TestRedisListCache(t *testing.T) {
	ctx := context.Background()
	rows := []salary.SalaryResponse{{
		ID:                    1,
		Name:                  "A",
		Email:                 "a@x.com",
		Currency:              "USD",
		SalaryInLocalCurrency: salary.Amount{Decimal: decimal.RequireFromString("1000")},
		Commission:            salary.Amount{Decimal: decimal.RequireFromString("500")},
		DisplayedSalary:       salary.Amount{Decimal: decimal.RequireFromString("500")},
		CreatedAt:             time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:             time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}}
	payload, err := json.Marshal(&rows)
	require.NoError(t, err)

	t.Run("miss fills the cache", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		lc := salary.NewRedisListCache(cache.NewWithClient(rdb), 30*time.Second)

		mock.ExpectGet("salary:list:gen").RedisNil()
		mock.ExpectGet("salary:list:0").RedisNil()
		mock.ExpectSet("salary:list:0", payload, 30*time.Second).SetVal("OK")

		got, err := lc.GetOrLoad(ctx, func(context.Context) ([]salary.SalaryResponse, error) { return rows, nil })
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a@x.com", got[0].Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hit decodes amounts", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		lc := salary.NewRedisListCache(cache.NewWithClient(rdb), 30*time.Second)

		mock.ExpectGet("salary:list:gen").SetVal("4")
		mock.ExpectGet("salary:list:4").SetVal(string(payload))

		got, err := lc.GetOrLoad(ctx, func(context.Context) ([]salary.SalaryResponse, error) {
			t.Fatal("loader must not run on a hit")
			return nil, nil
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "500.00", got[0].DisplayedSalary.StringFixed(2))
		assert.Nil(t, got[0].SalaryInEuros)
	})

	t.Run("invalidate bumps the generation", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		lc := salary.NewRedisListCache(cache.NewWithClient(rdb), 30*time.Second)

		mock.ExpectIncr("salary:list:gen").SetVal(1)

		require.NoError(t, lc.Invalidate(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a write during a load is not served afterwards", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		lc := salary.NewRedisListCache(cache.NewWithClient(rdb), 30*time.Second)

		stale := []salary.SalaryResponse{{ID: 1, Commission: rows[0].Commission, DisplayedSalary: rows[0].DisplayedSalary, SalaryInLocalCurrency: rows[0].SalaryInLocalCurrency}}
		stalePayload, err := json.Marshal(&stale)
		require.NoError(t, err)

		// the first list reads generation 0 and a write lands while it loads
		mock.ExpectGet("salary:list:gen").RedisNil()
		mock.ExpectGet("salary:list:0").RedisNil()
		mock.ExpectIncr("salary:list:gen").SetVal(1)
		mock.ExpectSet("salary:list:0", stalePayload, 30*time.Second).SetVal("OK")
		// the next list looks at generation 1 and reloads
		mock.ExpectGet("salary:list:gen").SetVal("1")
		mock.ExpectGet("salary:list:1").RedisNil()
		mock.ExpectSet("salary:list:1", payload, 30*time.Second).SetVal("OK")

		_, err = lc.GetOrLoad(ctx, func(ctx context.Context) ([]salary.SalaryResponse, error) {
			require.NoError(t, lc.Invalidate(ctx))
			return stale, nil
		})
		require.NoError(t, err)

		got, err := lc.GetOrLoad(ctx, func(context.Context) ([]salary.SalaryResponse, error) { return rows, nil })
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a@x.com", got[0].Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed bump drops the current generation", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		lc := salary.NewRedisListCache(cache.NewWithClient(rdb), 30*time.Second)

		mock.ExpectIncr("salary:list:gen").SetErr(errors.New("READONLY"))
		mock.ExpectGet("salary:list:gen").SetVal("2")
		mock.ExpectDel("salary:list:2").SetVal(1)

		require.NoError(t, lc.Invalidate(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed bump and delete is reported", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		lc := salary.NewRedisListCache(cache.NewWithClient(rdb), 30*time.Second)

		mock.ExpectIncr("salary:list:gen").SetErr(errors.New("READONLY"))
		mock.ExpectGet("salary:list:gen").SetVal("2")
		mock.ExpectDel("salary:list:2").SetErr(errors.New("READONLY"))

		assert.Error(t, lc.Invalidate(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("generation lookup failure reads through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		lc := salary.NewRedisListCache(cache.NewWithClient(rdb), 30*time.Second)

		mock.ExpectGet("salary:list:gen").SetErr(errors.New("connection refused"))

		got, err := lc.GetOrLoad(ctx, func(context.Context) ([]salary.SalaryResponse, error) { return rows, nil })
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

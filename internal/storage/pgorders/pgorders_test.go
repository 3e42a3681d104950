package pgorders

import (
	"context"
	"testing"
	"time"

	"github.com/BearBump/ParcelAssist/internal/models"
	"github.com/BearBump/ParcelAssist/internal/storage/memorders"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPGOrders_RepoFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "admin",
			"POSTGRES_PASSWORD": "admin",
			"POSTGRES_DB":       "parcelassist_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := "postgres://admin:admin@" + host + ":" + port.Port() + "/parcelassist_test?sslmode=disable"
	st, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(st.Close)
	require.NoError(t, st.Ping(ctx))

	// seed дважды: второй раз — upsert без ошибок
	require.NoError(t, st.UpsertOrders(ctx, memorders.SampleOrders()))
	require.NoError(t, st.UpsertOrders(ctx, memorders.SampleOrders()))

	o, ok, err := st.FindByID(ctx, "ab-123456")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "dora@gmail.com", o.Email)
	require.Equal(t, "USPS", o.Carrier)

	o, ok, err = st.FindByID(ctx, "AB-654321")
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, o.Notes)

	_, ok, err = st.FindByID(ctx, "AB-999999")
	require.NoError(t, err)
	require.False(t, ok)

	// support cases + идемпотентность по (session, kind)
	ref := "CASE-20250907083500"
	occurred := time.Date(2025, 9, 7, 8, 35, 0, 0, time.UTC)
	created, err := st.CreateCase(ctx, models.SupportCase{
		Kind:       models.SupportCaseKindMissingPackage,
		SessionID:  "s-1",
		OrderID:    "AB-112233",
		Email:      "devin@gmail.com",
		Zip:        "94704",
		CaseRef:    &ref,
		OccurredAt: occurred,
	})
	require.NoError(t, err)
	require.True(t, created)

	created, err = st.CreateCase(ctx, models.SupportCase{
		Kind:       models.SupportCaseKindMissingPackage,
		SessionID:  "s-1",
		OccurredAt: occurred,
	})
	require.NoError(t, err)
	require.False(t, created)

	created, err = st.CreateCase(ctx, models.SupportCase{
		Kind:       models.SupportCaseKindEscalation,
		SessionID:  "s-2",
		Reason:     "declined_confirmation",
		OccurredAt: occurred.Add(time.Minute),
	})
	require.NoError(t, err)
	require.True(t, created)

	cases, err := st.ListCases(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	require.Equal(t, "s-2", cases[0].SessionID)
	require.Nil(t, cases[0].CaseRef)
	require.NotNil(t, cases[1].CaseRef)
	require.Equal(t, ref, *cases[1].CaseRef)
}

package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"droneregistry/internal/registry/handler/mocks"
	"droneregistry/internal/registry/models"
	"droneregistry/pkg/requestcontext"
	"droneregistry/pkg/testutil"
)

func TestHeartbeatCarriesRequestContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	router := chi.NewRouter()
	New(svc, openGate{}, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(router)

	pinned := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := uuid.New()

	testutil.Given(t, "an authenticated caller with a pinned request time", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodPost, "/rid-modules/"+id.String()+"/heartbeat")
		req = testutil.WithSubject(req, "ops|42", "read:privileged")
		req = testutil.WithTime(req, pinned)
		req = testutil.WithRequestID(req, "req-heartbeat")

		svc.EXPECT().Heartbeat(gomock.Any(), id).
			DoAndReturn(func(ctx context.Context, got uuid.UUID) (*models.RIDModule, error) {
				assert.Equal(t, "ops|42", requestcontext.Subject(ctx))
				assert.Equal(t, pinned, requestcontext.Now(ctx))
				assert.Equal(t, "req-heartbeat", requestcontext.RequestID(ctx))
				return &models.RIDModule{
					ID: got, OperatorID: uuid.New(), AircraftID: uuid.New(),
					ModuleESN: "RID-0001", RIDID: uuid.New(),
					Status: models.RIDStatusActive, LastSeenAt: &pinned,
					CreatedAt: pinned, UpdatedAt: pinned,
				}, nil
			})

		testutil.When(t, "they post a heartbeat", func(t *testing.T) {
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "the service sees the caller and the response echoes last_seen_at", func(t *testing.T) {
				require.Equal(t, http.StatusOK, rr.Code)
				body := testutil.UnmarshalResponse[RIDModuleResponse](t, rr)
				require.NotNil(t, body.LastSeenAt)
				assert.True(t, pinned.Equal(*body.LastSeenAt))
				assert.Equal(t, "active", body.Status)
			})
		})
	})
}

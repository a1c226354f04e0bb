package equipment_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"toolhub/infras/otel/mocks"
	equipmentMocks "toolhub/internal/domains/equipment/mocks"
	"toolhub/internal/domains/equipment/model/dto"
	"toolhub/internal/handlers/equipment"
	"toolhub/shared/failure"
	"toolhub/transport/http/response"
)

func TestHandler_ListAvailable(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		setupMock  func(svc *equipmentMocks.MockDirectory)
		wantStatus int
		wantTotal  int
		wantType   string
	}{
		{
			name:  "available items",
			query: "?kind=Electric&search=drill",
			setupMock: func(svc *equipmentMocks.MockDirectory) {
				svc.EXPECT().
					ListAvailable(gomock.Any(), dto.ListAvailableRequest{Kind: "electric", Search: "drill"}).
					Return(dto.ListAvailableResponse{
						Equipment: []dto.EquipmentSummary{{ID: "a", Kind: "electric", Name: "Drill"}},
						Total:     1,
					}, nil)
			},
			wantStatus: http.StatusOK,
			wantTotal:  1,
		},
		{
			name:  "missing kind",
			query: "",
			setupMock: func(svc *equipmentMocks.MockDirectory) {
				svc.EXPECT().
					ListAvailable(gomock.Any(), dto.ListAvailableRequest{}).
					Return(dto.ListAvailableResponse{}, failure.BadRequestFromString("kind is required"))
			},
			wantStatus: http.StatusBadRequest,
			wantType:   failure.TypeValidation,
		},
		{
			name:  "inventory unreachable",
			query: "?kind=manual",
			setupMock: func(svc *equipmentMocks.MockDirectory) {
				svc.EXPECT().
					ListAvailable(gomock.Any(), dto.ListAvailableRequest{Kind: "manual"}).
					Return(dto.ListAvailableResponse{Equipment: []dto.EquipmentSummary{}}, failure.Collaborator("equipment directory"))
			},
			wantStatus: http.StatusBadGateway,
			wantType:   failure.TypeCollaborator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := equipmentMocks.NewMockDirectory(ctrl)
			tt.setupMock(svc)

			handler := equipment.New(svc, mocks.NewOtel())
			router := chi.NewRouter()
			handler.Router(router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/equipment/available"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantType != "" {
				var payload response.Error
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
				assert.Equal(t, tt.wantType, payload.Type)

				return
			}

			var payload struct {
				Data dto.ListAvailableResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.Equal(t, tt.wantTotal, payload.Data.Total)
		})
	}
}

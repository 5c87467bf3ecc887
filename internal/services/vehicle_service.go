package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/scope"
	"github.com/nconnect/society-backend/internal/utils"
)

type VehicleService struct {
	vehicles repositories.VehicleRepository
	callers  *CallerResolver
	activity activityRecorder
}

func NewVehicleService(
	vehicles repositories.VehicleRepository,
	callers *CallerResolver,
	activity repositories.ActivityLogRepository,
) *VehicleService {
	return &VehicleService{
		vehicles: vehicles,
		callers:  callers,
		activity: activityRecorder{repo: activity, now: time.Now},
	}
}

func (s *VehicleService) List(ctx context.Context, callerID uuid.UUID, f repositories.VehicleFilter) ([]*models.Vehicle, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	list, err := s.vehicles.List(ctx, f)
	if err != nil {
		return nil, utils.Internal("Failed to list vehicles", err)
	}
	return scope.Filter(nonNil(list), caller, scope.Vehicle), nil
}

// Search matches registration number, make, model and resident name.
// Administrators search every vehicle; residents only their own.
func (s *VehicleService) Search(ctx context.Context, callerID uuid.UUID, query string) (*dtos.VehicleSearchResponse, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if len(query) < utils.VehicleSearchMinQueryLen {
		return nil, utils.BadRequest(fmt.Sprintf("Search query must be at least %d characters", utils.VehicleSearchMinQueryLen))
	}

	limit := utils.VehicleSearchAdminLimit
	var resident *uuid.UUID
	if !caller.IsAdmin {
		limit = utils.VehicleSearchResidentLimit
		resident = &caller.UserID
	}

	hits, err := s.vehicles.Search(ctx, query, resident, limit)
	if err != nil {
		return nil, utils.Internal("Failed to search vehicles", err)
	}

	resp := &dtos.VehicleSearchResponse{Query: query, Results: make([]dtos.VehicleSearchResult, 0, len(hits))}
	for _, h := range hits {
		if !scope.Visible(h.Vehicle, caller, scope.Vehicle) {
			continue
		}
		resp.Results = append(resp.Results, dtos.VehicleSearchResult{
			ID:            h.Vehicle.ID,
			VehicleNumber: h.Vehicle.VehicleNumber,
			VehicleType:   h.Vehicle.VehicleType,
			Brand:         h.Vehicle.Brand,
			Model:         h.Vehicle.Model,
			Color:         h.Vehicle.Color,
			ParkingSlot:   h.Vehicle.ParkingSlot,
			ResidentID:    h.Vehicle.ResidentID,
			OwnerName:     h.OwnerName,
			Username:      h.Username,
			PhoneNumber:   h.PhoneNumber,
			FlatNumbers:   nonNil(h.UnitNumbers),
		})
	}
	resp.Count = len(resp.Results)
	return resp, nil
}

func (s *VehicleService) Get(ctx context.Context, callerID, id uuid.UUID) (*models.Vehicle, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.visible(ctx, caller, id)
}

// Create registers a vehicle for the caller.
func (s *VehicleService) Create(ctx context.Context, callerID uuid.UUID, req dtos.CreateVehicleRequest) (*models.Vehicle, error) {
	if _, _, err := s.callers.Resolve(ctx, callerID); err != nil {
		return nil, err
	}
	insurance, err := dtos.ParseDate(req.InsuranceExpiry)
	if err != nil {
		return nil, utils.BadRequest("Invalid insurance expiry date")
	}
	pollution, err := dtos.ParseDate(req.PollutionExpiry)
	if err != nil {
		return nil, utils.BadRequest("Invalid pollution expiry date")
	}

	v := &models.Vehicle{
		ID:              uuid.New(),
		ResidentID:      callerID,
		VehicleNumber:   req.VehicleNumber,
		VehicleType:     models.VehicleType(req.VehicleType),
		Brand:           req.Brand,
		Model:           req.Model,
		Color:           req.Color,
		Year:            req.Year,
		InsuranceExpiry: insurance,
		PollutionExpiry: pollution,
		ParkingSlot:     req.ParkingSlot,
		IsActive:        true,
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, utils.Conflict("Vehicle number is already registered")
		}
		return nil, utils.Internal("Failed to register vehicle", err)
	}
	s.activity.record(ctx, callerID, models.ActivityCreate, models.TargetVehicle, &v.ID,
		fmt.Sprintf("Registered vehicle %s", v.VehicleNumber))
	return v, nil
}

func (s *VehicleService) Update(ctx context.Context, callerID, id uuid.UUID, req dtos.UpdateVehicleRequest) (*models.Vehicle, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.visible(ctx, caller, id); err != nil {
		return nil, err
	}

	var updated *models.Vehicle
	err = s.vehicles.UpdateWithRetry(ctx, id, func(v *models.Vehicle) error {
		if req.VehicleNumber != nil {
			v.VehicleNumber = *req.VehicleNumber
		}
		if req.VehicleType != nil {
			v.VehicleType = models.VehicleType(*req.VehicleType)
		}
		if req.Brand != nil {
			v.Brand = *req.Brand
		}
		if req.Model != nil {
			v.Model = *req.Model
		}
		if req.Color != nil {
			v.Color = *req.Color
		}
		if req.Year != nil {
			v.Year = req.Year
		}
		if req.InsuranceExpiry != nil {
			expiry, err := dtos.ParseDate(req.InsuranceExpiry)
			if err != nil {
				return utils.BadRequest("Invalid insurance expiry date")
			}
			v.InsuranceExpiry = expiry
		}
		if req.PollutionExpiry != nil {
			expiry, err := dtos.ParseDate(req.PollutionExpiry)
			if err != nil {
				return utils.BadRequest("Invalid pollution expiry date")
			}
			v.PollutionExpiry = expiry
		}
		if req.ParkingSlot != nil {
			v.ParkingSlot = *req.ParkingSlot
		}
		if req.IsActive != nil {
			v.IsActive = *req.IsActive
		}
		updated = v
		return nil
	})
	if err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, utils.Conflict("Vehicle number is already registered")
		}
		return nil, updateError(err, "Vehicle")
	}
	s.activity.record(ctx, callerID, models.ActivityUpdate, models.TargetVehicle, &id,
		fmt.Sprintf("Updated vehicle %s", updated.VehicleNumber))
	return updated, nil
}

func (s *VehicleService) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return err
	}
	v, err := s.visible(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.vehicles.Delete(ctx, id); err != nil {
		return deleteError(err, "Vehicle")
	}
	s.activity.record(ctx, callerID, models.ActivityDelete, models.TargetVehicle, &id,
		fmt.Sprintf("Removed vehicle %s", v.VehicleNumber))
	return nil
}

func (s *VehicleService) visible(ctx context.Context, caller scope.Caller, id uuid.UUID) (*models.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, utils.Internal("Failed to load vehicle", err)
	}
	if v == nil || !scope.Visible(v, caller, scope.Vehicle) {
		return nil, utils.NotFound("Vehicle not found")
	}
	return v, nil
}

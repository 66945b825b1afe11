package services

import (
	"errors"
	"strings"

	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LaborerInput struct {
	Name       string
	Phone      string
	SkillLevel string
	Rate       decimal.Decimal
	RateType   models.RateType
	Status     models.LaborerStatus
}

type GroupInput struct {
	Name        string
	Description string
	Color       string
}

type LaborerService struct {
	laborerRepo *repository.LaborerRepository
	groupRepo   *repository.LaborerGroupRepository
}

func NewLaborerService(laborerRepo *repository.LaborerRepository, groupRepo *repository.LaborerGroupRepository) *LaborerService {
	return &LaborerService{
		laborerRepo: laborerRepo,
		groupRepo:   groupRepo,
	}
}

func (s *LaborerService) CreateLaborer(ownerID uint, input LaborerInput) (*models.Laborer, error) {
	laborer := &models.Laborer{UserID: ownerID}
	if err := applyLaborerInput(laborer, input); err != nil {
		return nil, err
	}
	if err := s.laborerRepo.Create(laborer); err != nil {
		return nil, err
	}
	return laborer, nil
}

func (s *LaborerService) UpdateLaborer(ownerID, laborerID uint, input LaborerInput) (*models.Laborer, error) {
	laborer, err := s.GetLaborer(ownerID, laborerID)
	if err != nil {
		return nil, err
	}
	if err := applyLaborerInput(laborer, input); err != nil {
		return nil, err
	}
	if err := s.laborerRepo.Update(laborer); err != nil {
		return nil, err
	}
	return laborer, nil
}

func (s *LaborerService) DeleteLaborer(ownerID, laborerID uint) error {
	if _, err := s.GetLaborer(ownerID, laborerID); err != nil {
		return err
	}
	return s.laborerRepo.Delete(laborerID)
}

func (s *LaborerService) GetLaborer(ownerID, laborerID uint) (*models.Laborer, error) {
	laborer, err := s.laborerRepo.FindByID(laborerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLaborerNotFound
		}
		return nil, err
	}
	if laborer.UserID != ownerID {
		return nil, ErrNotOwner
	}
	return laborer, nil
}

func (s *LaborerService) ListLaborers(ownerID uint) ([]models.Laborer, error) {
	return s.laborerRepo.ListByOwner(ownerID)
}

func (s *LaborerService) CreateGroup(ownerID uint, input GroupInput) (*models.LaborerGroup, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, newError(KindValidation, "group name is required")
	}

	group := &models.LaborerGroup{
		UserID:      ownerID,
		Name:        name,
		Description: input.Description,
		Color:       input.Color,
	}
	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *LaborerService) UpdateGroup(ownerID, groupID uint, input GroupInput) (*models.LaborerGroup, error) {
	group, err := s.GetGroup(ownerID, groupID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, newError(KindValidation, "group name is required")
	}
	group.Name = name
	group.Description = input.Description
	group.Color = input.Color

	if err := s.groupRepo.Update(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *LaborerService) DeleteGroup(ownerID, groupID uint) error {
	if _, err := s.GetGroup(ownerID, groupID); err != nil {
		return err
	}
	return s.groupRepo.Delete(groupID)
}

func (s *LaborerService) GetGroup(ownerID, groupID uint) (*models.LaborerGroup, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if group.UserID != ownerID {
		return nil, ErrNotOwner
	}
	return group, nil
}

func (s *LaborerService) ListGroups(ownerID uint) ([]models.LaborerGroup, error) {
	return s.groupRepo.ListByOwner(ownerID)
}

// AddMember appends a laborer to the group. Adding an existing member is a
// no-op so the original join order is kept.
func (s *LaborerService) AddMember(ownerID, groupID, laborerID uint) (*models.LaborerGroup, error) {
	if _, err := s.GetGroup(ownerID, groupID); err != nil {
		return nil, err
	}
	if _, err := s.GetLaborer(ownerID, laborerID); err != nil {
		return nil, err
	}

	member, err := s.groupRepo.IsMember(groupID, laborerID)
	if err != nil {
		return nil, err
	}
	if !member {
		if err := s.groupRepo.AddMember(groupID, laborerID); err != nil {
			return nil, err
		}
	}
	return s.groupRepo.FindByID(groupID)
}

func (s *LaborerService) RemoveMember(ownerID, groupID, laborerID uint) (*models.LaborerGroup, error) {
	if _, err := s.GetGroup(ownerID, groupID); err != nil {
		return nil, err
	}

	affected, err := s.groupRepo.RemoveMember(groupID, laborerID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrLaborerNotFound
	}
	return s.groupRepo.FindByID(groupID)
}

func applyLaborerInput(laborer *models.Laborer, input LaborerInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return newError(KindValidation, "laborer name is required")
	}
	if input.Rate.IsNegative() {
		return newError(KindValidation, "rate cannot be negative")
	}

	rateType := input.RateType
	if rateType == "" {
		rateType = models.RatePerDay
	}
	if rateType != models.RatePerDay && rateType != models.RatePerTask {
		return newError(KindValidation, "rate type must be per_day or per_task")
	}

	status := input.Status
	if status == "" {
		status = models.LaborerActive
	}
	if status != models.LaborerActive && status != models.LaborerInactive {
		return newError(KindValidation, "status must be active or inactive")
	}

	laborer.Name = name
	laborer.Phone = input.Phone
	laborer.SkillLevel = input.SkillLevel
	laborer.Rate = input.Rate.Round(2)
	laborer.RateType = rateType
	laborer.Status = status
	return nil
}

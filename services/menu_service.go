package services

import (
	"hotel-ops-backend/models"
	"hotel-ops-backend/realtime"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MenuService struct {
	db      *gorm.DB
	emitter realtime.Emitter
}

func NewMenuService(db *gorm.DB, emitter realtime.Emitter) *MenuService {
	return &MenuService{db: db, emitter: emitter}
}

// List returns menu items; activeOnly hides disabled ones (the guest view).
func (s *MenuService) List(activeOnly bool) ([]models.MenuItem, error) {
	var items []models.MenuItem
	q := s.db
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&items).Error
	return items, err
}

type MenuItemInput struct {
	Name        string         `json:"name" binding:"required"`
	Price       float64        `json:"price" binding:"required"`
	Category    string         `json:"category" binding:"required"`
	Description string         `json:"description"`
	ImageURL    string         `json:"imageUrl"`
	Allergens   datatypes.JSON `json:"allergens"`
	AllergyInfo string         `json:"allergyInfo"`
}

func (s *MenuService) Create(in MenuItemInput) (*models.MenuItem, error) {
	if in.Price <= 0 {
		return nil, Validationf("price must be positive")
	}

	item := models.MenuItem{
		Name:        in.Name,
		Price:       in.Price,
		Category:    in.Category,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		IsActive:    true,
		Allergens:   in.Allergens,
		AllergyInfo: in.AllergyInfo,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}

	s.emitter.Emit(realtime.EventMenuUpdated, item, "")
	return &item, nil
}

type MenuItemUpdate struct {
	Name        *string         `json:"name"`
	Price       *float64        `json:"price"`
	Category    *string         `json:"category"`
	Description *string         `json:"description"`
	ImageURL    *string         `json:"imageUrl"`
	IsActive    *bool           `json:"isActive"`
	Allergens   *datatypes.JSON `json:"allergens"`
	AllergyInfo *string         `json:"allergyInfo"`
}

func (s *MenuService) Update(id uint, in MenuItemUpdate) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.First(&item, id).Error; err != nil {
		return nil, ErrNotFound
	}

	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, Validationf("price must be positive")
		}
		item.Price = *in.Price
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.ImageURL != nil {
		item.ImageURL = *in.ImageURL
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	if in.Allergens != nil {
		item.Allergens = *in.Allergens
	}
	if in.AllergyInfo != nil {
		item.AllergyInfo = *in.AllergyInfo
	}

	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}

	s.emitter.Emit(realtime.EventMenuUpdated, item, "")
	return &item, nil
}

func (s *MenuService) Delete(id uint) error {
	res := s.db.Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.emitter.Emit(realtime.EventMenuUpdated, map[string]any{"id": id, "deleted": true}, "")
	return nil
}

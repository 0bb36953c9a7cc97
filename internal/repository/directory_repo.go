package repository

import (
	"errors"

	"shift-planner-bot/internal/models"

	"gorm.io/gorm"
)

var errEmptyName = errors.New("название обязательно")

type LocationRepository interface {
	Create(location *models.Location) error
	Delete(id string) error
	GetByCompany(companyID string) ([]*models.Location, error)
}

type GormLocationRepository struct {
	db *gorm.DB
}

func NewGormLocationRepository(db *gorm.DB) (*GormLocationRepository, error) {
	if err := db.AutoMigrate(&models.Location{}); err != nil {
		return nil, err
	}
	return &GormLocationRepository{db: db}, nil
}

func (r *GormLocationRepository) Create(location *models.Location) error {
	if location.Name == "" {
		return errEmptyName
	}
	if location.ID == "" {
		location.ID = models.NewID()
	}
	return r.db.Create(location).Error
}

func (r *GormLocationRepository) Delete(id string) error {
	return deleteByID(r.db, &models.Location{}, id, "площадка не найдена")
}

func (r *GormLocationRepository) GetByCompany(companyID string) ([]*models.Location, error) {
	var locations []*models.Location
	if err := r.db.Where("company_id = ?", companyID).Order("name ASC").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

type DepartmentRepository interface {
	Create(department *models.Department) error
	Delete(id string) error
	GetByCompany(companyID string) ([]*models.Department, error)
}

type GormDepartmentRepository struct {
	db *gorm.DB
}

func NewGormDepartmentRepository(db *gorm.DB) (*GormDepartmentRepository, error) {
	if err := db.AutoMigrate(&models.Department{}); err != nil {
		return nil, err
	}
	return &GormDepartmentRepository{db: db}, nil
}

func (r *GormDepartmentRepository) Create(department *models.Department) error {
	if department.Name == "" {
		return errEmptyName
	}
	if department.ID == "" {
		department.ID = models.NewID()
	}
	return r.db.Create(department).Error
}

func (r *GormDepartmentRepository) Delete(id string) error {
	return deleteByID(r.db, &models.Department{}, id, "отдел не найден")
}

func (r *GormDepartmentRepository) GetByCompany(companyID string) ([]*models.Department, error) {
	var departments []*models.Department
	if err := r.db.Where("company_id = ?", companyID).Order("name ASC").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

type RoleRepository interface {
	Create(role *models.Role) error
	Delete(id string) error
	GetByCompany(companyID string) ([]*models.Role, error)
}

type GormRoleRepository struct {
	db *gorm.DB
}

func NewGormRoleRepository(db *gorm.DB) (*GormRoleRepository, error) {
	if err := db.AutoMigrate(&models.Role{}); err != nil {
		return nil, err
	}
	return &GormRoleRepository{db: db}, nil
}

func (r *GormRoleRepository) Create(role *models.Role) error {
	if role.Name == "" {
		return errEmptyName
	}
	if role.ID == "" {
		role.ID = models.NewID()
	}
	return r.db.Create(role).Error
}

func (r *GormRoleRepository) Delete(id string) error {
	return deleteByID(r.db, &models.Role{}, id, "должность не найдена")
}

func (r *GormRoleRepository) GetByCompany(companyID string) ([]*models.Role, error) {
	var roles []*models.Role
	if err := r.db.Where("company_id = ?", companyID).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// deleteByID удаляет запись справочника, notFound возвращается, если удалять нечего
func deleteByID(db *gorm.DB, model any, id, notFound string) error {
	result := db.Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New(notFound)
	}
	return nil
}

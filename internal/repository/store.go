package repository

import "gorm.io/gorm"

// Store собирает все репозитории над одной базой
type Store struct {
	Shifts          *GormShiftRepository
	Absences        *GormAbsenceRepository
	AbsenceTypes    *GormAbsenceTypeRepository
	SpecialDays     *GormSpecialDayRepository
	SpecialDayTypes *GormSpecialDayTypeRepository
	Employees       *GormEmployeeRepository
	InboxMessages   *GormInboxMessageRepository
	Locations       *GormLocationRepository
	Departments     *GormDepartmentRepository
	Roles           *GormRoleRepository
	Users           *UserRepository
}

// NewStore создает репозитории и мигрирует их таблицы
func NewStore(db *gorm.DB) (*Store, error) {
	var s Store
	var err error

	if s.Shifts, err = NewGormShiftRepository(db); err != nil {
		return nil, err
	}
	if s.Absences, err = NewGormAbsenceRepository(db); err != nil {
		return nil, err
	}
	if s.AbsenceTypes, err = NewGormAbsenceTypeRepository(db); err != nil {
		return nil, err
	}
	if s.SpecialDays, err = NewGormSpecialDayRepository(db); err != nil {
		return nil, err
	}
	if s.SpecialDayTypes, err = NewGormSpecialDayTypeRepository(db); err != nil {
		return nil, err
	}
	if s.Employees, err = NewGormEmployeeRepository(db); err != nil {
		return nil, err
	}
	if s.InboxMessages, err = NewGormInboxMessageRepository(db); err != nil {
		return nil, err
	}
	if s.Locations, err = NewGormLocationRepository(db); err != nil {
		return nil, err
	}
	if s.Departments, err = NewGormDepartmentRepository(db); err != nil {
		return nil, err
	}
	if s.Roles, err = NewGormRoleRepository(db); err != nil {
		return nil, err
	}
	if s.Users, err = NewUserRepository(db); err != nil {
		return nil, err
	}

	return &s, nil
}

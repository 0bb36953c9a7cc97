package service

import (
	"fmt"
	"strings"

	"shift-planner-bot/internal/engine"
	"shift-planner-bot/internal/models"

	"github.com/sirupsen/logrus"
)

// DirectoryService ведет справочники площадок, отделов и должностей
type DirectoryService struct {
	ws     *Workspace
	logger *logrus.Logger
}

func NewDirectoryService(ws *Workspace) *DirectoryService {
	return &DirectoryService{
		ws:     ws,
		logger: newLogger(),
	}
}

func (s *DirectoryService) Locations() []*models.Location {
	return s.ws.Snapshot().Locations
}

func (s *DirectoryService) Departments() []*models.Department {
	return s.ws.Snapshot().Departments
}

func (s *DirectoryService) Roles() []*models.Role {
	return s.ws.Snapshot().Roles
}

// FindLocation ищет площадку по id или названию
func (s *DirectoryService) FindLocation(key string) (*models.Location, error) {
	snap := s.ws.Snapshot()
	if l := snap.Location(key); l != nil {
		return l, nil
	}
	for _, l := range snap.Locations {
		if models.SameName(l.Name, key) {
			return l, nil
		}
	}
	return nil, ErrLocationNotFound
}

// FindDepartment ищет отдел по id или названию
func (s *DirectoryService) FindDepartment(key string) (*models.Department, error) {
	snap := s.ws.Snapshot()
	if d := snap.Department(key); d != nil {
		return d, nil
	}
	for _, d := range snap.Departments {
		if models.SameName(d.Name, key) {
			return d, nil
		}
	}
	return nil, ErrDepartmentNotFound
}

// ResolveRole возвращает название должности из справочника или из карточек сотрудников
func (s *DirectoryService) ResolveRole(key string) (string, error) {
	snap := s.ws.Snapshot()
	for _, r := range snap.Roles {
		if r.ID == key || models.SameName(r.Name, key) {
			return r.Name, nil
		}
	}
	for _, e := range snap.Employees {
		if models.SameName(e.Role, key) {
			return e.Role, nil
		}
	}
	return "", ErrRoleNotFound
}

func (s *DirectoryService) AddLocation(name, address string) (*models.Location, error) {
	location := &models.Location{
		ID:        models.NewID(),
		CompanyID: s.ws.CompanyID(),
		Name:      strings.TrimSpace(name),
		Address:   strings.TrimSpace(address),
	}
	if location.Name == "" {
		return nil, ErrEmptyName
	}

	err := s.ws.update(func(snap *engine.Snapshot) error {
		for _, l := range snap.Locations {
			if models.SameName(l.Name, location.Name) {
				return ErrDuplicateName
			}
		}
		if err := s.ws.repos.Locations.Create(location); err != nil {
			return fmt.Errorf("create location: %w", err)
		}
		snap.Locations = append(append([]*models.Location(nil), snap.Locations...), location)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("name", location.Name).Info("Location added")
	return location, nil
}

func (s *DirectoryService) AddDepartment(name string) (*models.Department, error) {
	department := &models.Department{
		ID:        models.NewID(),
		CompanyID: s.ws.CompanyID(),
		Name:      strings.TrimSpace(name),
	}
	if department.Name == "" {
		return nil, ErrEmptyName
	}

	err := s.ws.update(func(snap *engine.Snapshot) error {
		for _, d := range snap.Departments {
			if models.SameName(d.Name, department.Name) {
				return ErrDuplicateName
			}
		}
		if err := s.ws.repos.Departments.Create(department); err != nil {
			return fmt.Errorf("create department: %w", err)
		}
		snap.Departments = append(append([]*models.Department(nil), snap.Departments...), department)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("name", department.Name).Info("Department added")
	return department, nil
}

func (s *DirectoryService) AddRole(name string) (*models.Role, error) {
	role := &models.Role{
		ID:        models.NewID(),
		CompanyID: s.ws.CompanyID(),
		Name:      strings.TrimSpace(name),
	}
	if role.Name == "" {
		return nil, ErrEmptyName
	}

	err := s.ws.update(func(snap *engine.Snapshot) error {
		for _, r := range snap.Roles {
			if models.SameName(r.Name, role.Name) {
				return ErrDuplicateName
			}
		}
		if err := s.ws.repos.Roles.Create(role); err != nil {
			return fmt.Errorf("create role: %w", err)
		}
		snap.Roles = append(append([]*models.Role(nil), snap.Roles...), role)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("name", role.Name).Info("Role added")
	return role, nil
}

// DeleteLocation удаляет площадку, если на нее не ссылается ни одна смена
func (s *DirectoryService) DeleteLocation(id string) error {
	return s.ws.update(func(snap *engine.Snapshot) error {
		if snap.Location(id) == nil {
			return ErrLocationNotFound
		}
		for _, sh := range snap.Shifts {
			if sh.LocationID != nil && *sh.LocationID == id {
				return ErrInUse
			}
		}
		if err := s.ws.repos.Locations.Delete(id); err != nil {
			return fmt.Errorf("delete location: %w", err)
		}
		var kept []*models.Location
		for _, l := range snap.Locations {
			if l.ID != id {
				kept = append(kept, l)
			}
		}
		snap.Locations = kept
		return nil
	})
}

// DeleteDepartment удаляет отдел, если на него не ссылается ни одна смена
func (s *DirectoryService) DeleteDepartment(id string) error {
	return s.ws.update(func(snap *engine.Snapshot) error {
		if snap.Department(id) == nil {
			return ErrDepartmentNotFound
		}
		for _, sh := range snap.Shifts {
			if sh.DepartmentID != nil && *sh.DepartmentID == id {
				return ErrInUse
			}
		}
		if err := s.ws.repos.Departments.Delete(id); err != nil {
			return fmt.Errorf("delete department: %w", err)
		}
		var kept []*models.Department
		for _, d := range snap.Departments {
			if d.ID != id {
				kept = append(kept, d)
			}
		}
		snap.Departments = kept
		return nil
	})
}

// DeleteRole удаляет должность, если ее не занимает ни один сотрудник
func (s *DirectoryService) DeleteRole(id string) error {
	return s.ws.update(func(snap *engine.Snapshot) error {
		var role *models.Role
		for _, r := range snap.Roles {
			if r.ID == id {
				role = r
			}
		}
		if role == nil {
			return ErrRoleNotFound
		}
		for _, e := range snap.Employees {
			if models.SameName(e.Role, role.Name) {
				return ErrInUse
			}
		}
		if err := s.ws.repos.Roles.Delete(id); err != nil {
			return fmt.Errorf("delete role: %w", err)
		}
		var kept []*models.Role
		for _, r := range snap.Roles {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		snap.Roles = kept
		return nil
	})
}

// FormatDirectory выводит справочник: название и id
func FormatDirectory(title string, names, ids []string) string {
	if len(names) == 0 {
		return "📭 " + title + ": пусто"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📚 %s:\n\n", title)
	for i, name := range names {
		fmt.Fprintf(&b, "• %s\n   🆔 %s\n", name, ids[i])
	}
	return b.String()
}

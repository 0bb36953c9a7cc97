package service

import "errors"

var (
	ErrFeatureUnavailable       = errors.New("функция недоступна на текущем тарифе")
	ErrEmployeeNotFound         = errors.New("сотрудник не найден")
	ErrEmployeeLimitReached     = errors.New("достигнут лимит сотрудников тарифа")
	ErrDuplicateEmail           = errors.New("сотрудник с таким email уже существует")
	ErrInvalidAccessCode        = errors.New("неверный email или код доступа")
	ErrNotLinked                = errors.New("аккаунт не привязан к сотруднику")
	ErrNoShiftToClock           = errors.New("нет подходящей смены для отметки")
	ErrAbsenceTypeNotFound      = errors.New("вид отсутствия не найден")
	ErrSpecialDayTypeNotFound   = errors.New("тип особого дня не найден")
	ErrInvalidDates             = errors.New("дата окончания раньше даты начала")
	ErrMessageNotFound          = errors.New("сообщение не найдено")
	ErrMessageNotPending        = errors.New("сообщение уже обработано")
	ErrWrongMessageType         = errors.New("действие не подходит для этого типа сообщения")
	ErrAbsenceRequestIncomplete = errors.New("в запросе не указаны вид отсутствия или даты")
	ErrAbsenceOverlapsShift     = errors.New("на период отсутствия у сотрудника есть смены")
	ErrNothingToUndo            = errors.New("нечего отменять")
	ErrLocationNotFound         = errors.New("площадка не найдена")
	ErrDepartmentNotFound       = errors.New("отдел не найден")
	ErrRoleNotFound             = errors.New("должность не найдена")
	ErrDuplicateName            = errors.New("запись с таким названием уже есть")
	ErrEmptyName                = errors.New("название не может быть пустым")
	ErrInUse                    = errors.New("запись используется, сначала измените смены или сотрудников")
)

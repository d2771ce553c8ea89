package services

import (
	"github.com/aarondl/null/v8"
	"github.com/google/uuid"

	"company-registry/internal/entities"
)

// Session - карта идентичности сотрудников, принадлежащая вызывающему коду.
// Хранит все живые объекты Employee, созданные или загруженные с данным id,
// и живёт ровно столько, сколько сама сессия. Сессия не потокобезопасна.
//
// Согласование копий выполняется только при удалении: изменение одной копии
// через Update не распространяется на другие копии с тем же id.
type Session struct {
	ID        uuid.UUID
	instances map[int64][]*entities.Employee
}

func NewSession() *Session {
	return &Session{
		ID:        uuid.New(),
		instances: make(map[int64][]*entities.Employee),
	}
}

// Tracked возвращает все живые копии сотрудника с данным id.
func (s *Session) Tracked(id int64) []*entities.Employee {
	if s == nil {
		return nil
	}
	tracked := s.instances[id]
	out := make([]*entities.Employee, len(tracked))
	copy(out, tracked)
	return out
}

// Len - число различных id в сессии.
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.instances)
}

func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.instances = make(map[int64][]*entities.Employee)
}

func (s *Session) track(e *entities.Employee) {
	if s == nil || e == nil || !e.ID.Valid {
		return
	}
	id := e.ID.Int64
	for _, existing := range s.instances[id] {
		if existing == e {
			return
		}
	}
	s.instances[id] = append(s.instances[id], e)
}

// untrack убирает e из списка под его текущим id.
func (s *Session) untrack(e *entities.Employee) {
	if s == nil || e == nil || !e.ID.Valid {
		return
	}
	id := e.ID.Int64
	tracked := s.instances[id]
	for i, existing := range tracked {
		if existing == e {
			tracked = append(tracked[:i], tracked[i+1:]...)
			break
		}
	}
	if len(tracked) == 0 {
		delete(s.instances, id)
		return
	}
	s.instances[id] = tracked
}

// detach сбрасывает id у всех копий с данным id и забывает их.
func (s *Session) detach(id int64) {
	if s == nil {
		return
	}
	for _, e := range s.instances[id] {
		e.ID = null.Int64{}
	}
	delete(s.instances, id)
}

func sessionID(s *Session) uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.ID
}

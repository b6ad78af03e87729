package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/kvstore"
)

// Collection names as they appear in persisted keys.
const (
	CollectionStudents    = "students"
	CollectionDiaries     = "diaries"
	CollectionAttendance  = "attendance"
	CollectionUsers       = "users"
	CollectionFeedbacks   = "feedbacks"
	CollectionSyllabus    = "syllabus_progress"
	CollectionPerformance = "performance"
)

// DefaultUsers seeds the users collection when nothing is stored yet.
var DefaultUsers = []models.User{
	{VolunteerID: "25MDA177", Name: "Preet Patil", Password: "password"},
}

// StoreObserver receives persistence outcomes. MetricsService implements it.
type StoreObserver interface {
	ObserveStoreWrite(collection string, err error, duration time.Duration)
	RecordLoadFallback(collection, reason string)
}

// RecordsStoreOption customises a RecordsStore.
type RecordsStoreOption func(*RecordsStore)

// WithStoreLogger sets the logger used for storage failures.
func WithStoreLogger(logger *zap.Logger) RecordsStoreOption {
	return func(s *RecordsStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStoreObserver attaches a persistence observer.
func WithStoreObserver(observer StoreObserver) RecordsStoreOption {
	return func(s *RecordsStore) { s.observer = observer }
}

// WithStoreClock overrides the clock used for audit stamps.
func WithStoreClock(now func() time.Time) RecordsStoreOption {
	return func(s *RecordsStore) {
		if now != nil {
			s.now = now
		}
	}
}

// RecordsStore owns every portal collection. Mutations are applied in memory and
// then written through to the durable store; write failures are logged and counted
// but never returned, so in-memory state stays authoritative for the process.
type RecordsStore struct {
	kv       kvstore.Store
	prefix   string
	logger   *zap.Logger
	observer StoreObserver
	now      func() time.Time

	mu            sync.Mutex
	students      []models.Student
	attendance    []models.AttendanceRecord
	diaries       []models.DiaryEntry
	performance   []models.StudentPerformance
	users         []models.User
	feedbacks     []models.Feedback
	syllabus      map[models.SyllabusKey]models.SyllabusProgress
	syllabusOrder []models.SyllabusKey

	persistFailures int64
	lastPersistErr  error
}

// NewRecordsStore loads every collection from kv. Missing or undecodable entries
// fall back to defaults, so construction never fails because of stored content.
func NewRecordsStore(ctx context.Context, kv kvstore.Store, prefix string, opts ...RecordsStoreOption) *RecordsStore {
	s := &RecordsStore{
		kv:       kv,
		prefix:   prefix,
		logger:   zap.NewNop(),
		now:      time.Now,
		syllabus: make(map[models.SyllabusKey]models.SyllabusProgress),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.students = loadCollection(ctx, s, CollectionStudents, []models.Student{})
	s.attendance = loadCollection(ctx, s, CollectionAttendance, []models.AttendanceRecord{})
	s.diaries = loadCollection(ctx, s, CollectionDiaries, []models.DiaryEntry{})
	s.performance = loadCollection(ctx, s, CollectionPerformance, []models.StudentPerformance{})
	s.users = loadCollection(ctx, s, CollectionUsers, append([]models.User(nil), DefaultUsers...))
	s.feedbacks = loadCollection(ctx, s, CollectionFeedbacks, []models.Feedback{})
	for _, p := range loadCollection(ctx, s, CollectionSyllabus, []models.SyllabusProgress{}) {
		s.putSyllabus(p)
	}
	return s
}

func loadCollection[T any](ctx context.Context, s *RecordsStore, collection string, fallback []T) []T {
	raw, err := s.kv.Get(ctx, s.key(collection))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return fallback
		}
		s.logger.Warn("read collection failed, using defaults", zap.String("collection", collection), zap.Error(err))
		s.recordFallback(collection, "read_error")
		return fallback
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn("decode collection failed, using defaults", zap.String("collection", collection), zap.Error(err))
		s.recordFallback(collection, "decode_error")
		return fallback
	}
	if items == nil {
		return fallback
	}
	return items
}

func (s *RecordsStore) key(collection string) string {
	return s.prefix + collection
}

func (s *RecordsStore) recordFallback(collection, reason string) {
	if s.observer != nil {
		s.observer.RecordLoadFallback(collection, reason)
	}
}

// persist writes one collection through to the durable store. It is the only
// place that writes; callers must hold s.mu. Cancellation of ctx never
// reaches the store.
func (s *RecordsStore) persist(ctx context.Context, collection string, items interface{}) {
	start := time.Now()
	err := s.write(ctx, collection, items)
	if s.observer != nil {
		s.observer.ObserveStoreWrite(collection, err, time.Since(start))
	}
	if err != nil {
		s.persistFailures++
		s.lastPersistErr = err
		s.logger.Error("write-through failed", zap.String("collection", collection), zap.Error(err))
	}
}

func (s *RecordsStore) write(ctx context.Context, collection string, items interface{}) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if err := s.kv.Put(context.WithoutCancel(ctx), s.key(collection), payload); err != nil {
		return fmt.Errorf("put %s: %w", collection, err)
	}
	return nil
}

// PersistFailures reports how many write-throughs failed and the most recent error.
func (s *RecordsStore) PersistFailures() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistFailures, s.lastPersistErr
}

func (s *RecordsStore) stamp() string {
	return models.Timestamp(s.now())
}

// Students returns a copy of every student.
func (s *RecordsStore) Students() []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Student{}, s.students...)
}

// SaveStudent inserts the student or merges it into the record with the same ID.
// The boolean reports whether an existing record was updated.
func (s *RecordsStore) SaveStudent(ctx context.Context, student models.Student) (models.Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := false
	saved := student
	if idx := indexOf(s.students, func(x models.Student) bool { return x.ID == student.ID }); idx >= 0 {
		saved = s.students[idx].Merge(student)
		saved.Updated = true
		saved.LastUpdated = s.stamp()
		s.students[idx] = saved
		updated = true
	} else {
		s.students = append(s.students, saved)
	}
	s.persist(ctx, CollectionStudents, s.students)
	return saved, updated
}

// DeleteStudent removes the student with id; it reports whether one was found.
func (s *RecordsStore) DeleteStudent(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed bool
	s.students, removed = removeWhere(s.students, func(x models.Student) bool { return x.ID == id })
	s.persist(ctx, CollectionStudents, s.students)
	return removed
}

// Attendance returns a copy of every attendance session.
func (s *RecordsStore) Attendance() []models.AttendanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AttendanceRecord, len(s.attendance))
	for i, r := range s.attendance {
		out[i] = r.Clone()
	}
	return out
}

// SaveAttendance replaces the session with the same ID, stamping it as updated,
// or appends it when no such session exists.
func (s *RecordsStore) SaveAttendance(ctx context.Context, record models.AttendanceRecord) (models.AttendanceRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := record.Clone()
	updated := false
	if idx := indexOf(s.attendance, func(x models.AttendanceRecord) bool { return x.ID == record.ID }); idx >= 0 {
		saved.Updated = true
		saved.LastUpdated = s.stamp()
		s.attendance[idx] = saved
		updated = true
	} else {
		s.attendance = append(s.attendance, saved)
	}
	s.persist(ctx, CollectionAttendance, s.attendance)
	return saved.Clone(), updated
}

// DeleteAttendance removes the session with id.
func (s *RecordsStore) DeleteAttendance(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed bool
	s.attendance, removed = removeWhere(s.attendance, func(x models.AttendanceRecord) bool { return x.ID == id })
	s.persist(ctx, CollectionAttendance, s.attendance)
	return removed
}

// Diaries returns a copy of every diary entry.
func (s *RecordsStore) Diaries() []models.DiaryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DiaryEntry, len(s.diaries))
	for i, d := range s.diaries {
		out[i] = d.Clone()
	}
	return out
}

// SaveDiary creates the entry or replaces the one with the same ID.
func (s *RecordsStore) SaveDiary(ctx context.Context, entry models.DiaryEntry) (models.DiaryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := entry.Clone()
	updated := false
	if idx := indexOf(s.diaries, func(x models.DiaryEntry) bool { return x.ID == entry.ID }); idx >= 0 {
		saved.Updated = true
		saved.LastUpdated = s.stamp()
		s.diaries[idx] = saved
		updated = true
	} else {
		s.diaries = append(s.diaries, saved)
	}
	s.persist(ctx, CollectionDiaries, s.diaries)
	return saved.Clone(), updated
}

// DeleteDiary removes the entry with id.
func (s *RecordsStore) DeleteDiary(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed bool
	s.diaries, removed = removeWhere(s.diaries, func(x models.DiaryEntry) bool { return x.ID == id })
	s.persist(ctx, CollectionDiaries, s.diaries)
	return removed
}

// DeleteHistoryItem removes one entity from the collection matching kind.
// Unknown kinds are a no-op and report false.
func (s *RecordsStore) DeleteHistoryItem(ctx context.Context, id string, kind models.HistoryType) bool {
	switch kind {
	case models.HistoryAdmission:
		return s.DeleteStudent(ctx, id)
	case models.HistoryAttendance:
		return s.DeleteAttendance(ctx, id)
	case models.HistoryDiary:
		return s.DeleteDiary(ctx, id)
	default:
		return false
	}
}

// Performance returns a copy of every test record.
func (s *RecordsStore) Performance() []models.StudentPerformance {
	return s.PerformanceWhere(func(models.StudentPerformance) bool { return true })
}

// PerformanceByStudent returns the test records of one student in stored order.
func (s *RecordsStore) PerformanceByStudent(studentID string) []models.StudentPerformance {
	return s.PerformanceWhere(func(p models.StudentPerformance) bool { return p.StudentID == studentID })
}

// PerformanceWhere returns copies of the test records matching keep.
func (s *RecordsStore) PerformanceWhere(keep func(models.StudentPerformance) bool) []models.StudentPerformance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.StudentPerformance, 0, len(s.performance))
	for _, p := range s.performance {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// SavePerformance replaces the test record with the same ID or appends it.
func (s *RecordsStore) SavePerformance(ctx context.Context, perf models.StudentPerformance) (models.StudentPerformance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := perf.Clone()
	updated := false
	if idx := indexOf(s.performance, func(x models.StudentPerformance) bool { return x.ID == perf.ID }); idx >= 0 {
		s.performance[idx] = saved
		updated = true
	} else {
		s.performance = append(s.performance, saved)
	}
	s.persist(ctx, CollectionPerformance, s.performance)
	return saved.Clone(), updated
}

// SyllabusProgress returns the entries of a center for one week in stored order.
func (s *RecordsStore) SyllabusProgress(centerID, week string) []models.SyllabusProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SyllabusProgress, 0)
	for _, key := range s.syllabusOrder {
		if key.CenterID == centerID && key.Week == week {
			out = append(out, s.syllabus[key])
		}
	}
	return out
}

// SaveSyllabusProgress upserts a batch by composite key. Replaced entries move
// behind the untouched ones, in batch order.
func (s *RecordsStore) SaveSyllabusProgress(ctx context.Context, batch []models.SyllabusProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := make(map[models.SyllabusKey]struct{}, len(batch))
	for _, p := range batch {
		replaced[p.Key()] = struct{}{}
	}
	kept := s.syllabusOrder[:0]
	for _, key := range s.syllabusOrder {
		if _, ok := replaced[key]; ok {
			delete(s.syllabus, key)
			continue
		}
		kept = append(kept, key)
	}
	s.syllabusOrder = kept
	for _, p := range batch {
		s.putSyllabus(p)
	}
	s.persist(ctx, CollectionSyllabus, s.syllabusSnapshot())
}

func (s *RecordsStore) putSyllabus(p models.SyllabusProgress) {
	key := p.Key()
	if _, ok := s.syllabus[key]; !ok {
		s.syllabusOrder = append(s.syllabusOrder, key)
	}
	s.syllabus[key] = p
}

func (s *RecordsStore) syllabusSnapshot() []models.SyllabusProgress {
	out := make([]models.SyllabusProgress, 0, len(s.syllabusOrder))
	for _, key := range s.syllabusOrder {
		out = append(out, s.syllabus[key])
	}
	return out
}

// FindUser returns the account with the exact volunteer ID.
func (s *RecordsStore) FindUser(volunteerID string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := indexOf(s.users, func(u models.User) bool { return u.VolunteerID == volunteerID }); idx >= 0 {
		return s.users[idx], true
	}
	return models.User{}, false
}

// AddUser appends an account unless the volunteer ID is taken.
func (s *RecordsStore) AddUser(ctx context.Context, user models.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.users, func(u models.User) bool { return u.VolunteerID == user.VolunteerID }) >= 0 {
		return false
	}
	s.users = append(s.users, user)
	s.persist(ctx, CollectionUsers, s.users)
	return true
}

// UpdateUser applies mutate to the account with the volunteer ID.
func (s *RecordsStore) UpdateUser(ctx context.Context, volunteerID string, mutate func(*models.User)) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := indexOf(s.users, func(u models.User) bool { return u.VolunteerID == volunteerID })
	if idx < 0 {
		return models.User{}, false
	}
	mutate(&s.users[idx])
	s.persist(ctx, CollectionUsers, s.users)
	return s.users[idx], true
}

// Feedbacks returns a copy of every feedback entry.
func (s *RecordsStore) Feedbacks() []models.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Feedback{}, s.feedbacks...)
}

// AddFeedback appends one feedback entry.
func (s *RecordsStore) AddFeedback(ctx context.Context, feedback models.Feedback) models.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedbacks = append(s.feedbacks, feedback)
	s.persist(ctx, CollectionFeedbacks, s.feedbacks)
	return feedback
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return -1
}

func removeWhere[T any](items []T, match func(T) bool) ([]T, bool) {
	out := make([]T, 0, len(items))
	removed := false
	for _, item := range items {
		if match(item) {
			removed = true
			continue
		}
		out = append(out, item)
	}
	return out, removed
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/kvstore"
)

type failingKV struct {
	*kvstore.MemoryStore
	putErr error
	getErr error
}

func (f *failingKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *failingKV) Put(ctx context.Context, key string, value []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.MemoryStore.Put(ctx, key, value)
}

type observerStub struct {
	writes    map[string]int
	failures  map[string]int
	fallbacks map[string]string
}

func newObserverStub() *observerStub {
	return &observerStub{writes: map[string]int{}, failures: map[string]int{}, fallbacks: map[string]string{}}
}

func (o *observerStub) ObserveStoreWrite(collection string, err error, _ time.Duration) {
	o.writes[collection]++
	if err != nil {
		o.failures[collection]++
	}
}

func (o *observerStub) RecordLoadFallback(collection, reason string) {
	o.fallbacks[collection] = reason
}

func fixedClock(ts string) func() time.Time {
	t, _ := time.Parse(time.RFC3339, ts)
	return func() time.Time { return t }
}

func TestNewRecordsStoreDefaults(t *testing.T) {
	store := NewRecordsStore(context.Background(), kvstore.NewMemoryStore(), "pravah_")

	assert.Empty(t, store.Students())
	assert.Empty(t, store.Attendance())
	assert.Empty(t, store.Diaries())
	assert.Empty(t, store.Performance())
	assert.Empty(t, store.Feedbacks())

	user, ok := store.FindUser("25MDA177")
	require.True(t, ok)
	assert.Equal(t, "Preet Patil", user.Name)
	assert.Equal(t, "password", user.Password)
}

func TestNewRecordsStoreFallsBackOnCorruptEntries(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	require.NoError(t, kv.Put(ctx, "pravah_students", []byte("{not json")))
	require.NoError(t, kv.Put(ctx, "pravah_users", []byte("42")))
	observer := newObserverStub()

	store := NewRecordsStore(ctx, kv, "pravah_", WithStoreObserver(observer))

	assert.Empty(t, store.Students())
	_, ok := store.FindUser("25MDA177")
	assert.True(t, ok)
	assert.Equal(t, "decode_error", observer.fallbacks[CollectionStudents])
	assert.Equal(t, "decode_error", observer.fallbacks[CollectionUsers])
}

func TestNewRecordsStoreFallsBackOnReadErrors(t *testing.T) {
	kv := &failingKV{MemoryStore: kvstore.NewMemoryStore(), getErr: errors.New("disk gone")}
	observer := newObserverStub()

	store := NewRecordsStore(context.Background(), kv, "pravah_", WithStoreObserver(observer))

	assert.Empty(t, store.Diaries())
	_, ok := store.FindUser("25MDA177")
	assert.True(t, ok)
	assert.Equal(t, "read_error", observer.fallbacks[CollectionDiaries])
}

func TestSaveStudentUpsertMarksUpdated(t *testing.T) {
	ctx := context.Background()
	store := NewRecordsStore(ctx, kvstore.NewMemoryStore(), "pravah_", WithStoreClock(fixedClock("2024-06-01T10:00:00Z")))

	first, updated := store.SaveStudent(ctx, models.Student{ID: "24MDAMP101", Name: "Asha", ClassLevel: "5", Contact: "999"})
	assert.False(t, updated)
	assert.False(t, first.Updated)

	second, updated := store.SaveStudent(ctx, models.Student{ID: "24MDAMP101", Name: "Asha K", ClassLevel: "6"})
	assert.True(t, updated)

	students := store.Students()
	require.Len(t, students, 1)
	assert.Equal(t, second, students[0])
	assert.Equal(t, "Asha K", students[0].Name)
	assert.Equal(t, "6", students[0].ClassLevel)
	assert.Equal(t, "999", students[0].Contact)
	assert.True(t, students[0].Updated)
	assert.Equal(t, "2024-06-01T10:00:00Z", students[0].LastUpdated)
}

func TestSaveAttendanceReplacesAndAppends(t *testing.T) {
	ctx := context.Background()
	store := NewRecordsStore(ctx, kvstore.NewMemoryStore(), "pravah_", WithStoreClock(fixedClock("2024-06-01T10:00:00Z")))

	_, updated := store.SaveAttendance(ctx, models.AttendanceRecord{ID: "ATT-1", Date: "2024-06-01", PresentStudentIDs: []string{"S1"}, Mode: models.AttendanceModeQR, TotalStudents: 1})
	assert.False(t, updated)

	saved, updated := store.SaveAttendance(ctx, models.AttendanceRecord{ID: "ATT-1", Date: "2024-06-01", PresentStudentIDs: []string{"S1", "S2"}, Mode: models.AttendanceModeManual, TotalStudents: 2})
	assert.True(t, updated)
	assert.True(t, saved.Updated)
	assert.Equal(t, "2024-06-01T10:00:00Z", saved.LastUpdated)

	_, updated = store.SaveAttendance(ctx, models.AttendanceRecord{ID: "ATT-2", Date: "2024-06-02"})
	assert.False(t, updated)

	records := store.Attendance()
	require.Len(t, records, 2)
	assert.Equal(t, []string{"S1", "S2"}, records[0].PresentStudentIDs)
	assert.Equal(t, "ATT-2", records[1].ID)
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	store := NewRecordsStore(ctx, kvstore.NewMemoryStore(), "pravah_")
	store.SaveAttendance(ctx, models.AttendanceRecord{ID: "ATT-1", PresentStudentIDs: []string{"S1"}})
	store.SaveDiary(ctx, models.DiaryEntry{ID: "D1", Volunteers: []models.DiaryVolunteerEntry{{Name: "A"}}})
	store.SavePerformance(ctx, models.StudentPerformance{ID: "P1", StudentID: "S1", Scores: []models.SubjectScore{{Subject: "Math", Score: 50}}})

	store.Attendance()[0].PresentStudentIDs[0] = "changed"
	store.Diaries()[0].Volunteers[0].Name = "changed"
	store.PerformanceByStudent("S1")[0].Scores[0].Score = 0

	assert.Equal(t, "S1", store.Attendance()[0].PresentStudentIDs[0])
	assert.Equal(t, "A", store.Diaries()[0].Volunteers[0].Name)
	assert.Equal(t, 50.0, store.PerformanceByStudent("S1")[0].Scores[0].Score)
}

func TestDeleteHistoryItemTouchesOneCollection(t *testing.T) {
	ctx := context.Background()
	store := NewRecordsStore(ctx, kvstore.NewMemoryStore(), "pravah_")
	store.SaveStudent(ctx, models.Student{ID: "X1"})
	store.SaveAttendance(ctx, models.AttendanceRecord{ID: "X1"})
	store.SaveAttendance(ctx, models.AttendanceRecord{ID: "ATT-2"})
	store.SaveDiary(ctx, models.DiaryEntry{ID: "X1"})

	assert.True(t, store.DeleteHistoryItem(ctx, "X1", models.HistoryAttendance))

	require.Len(t, store.Attendance(), 1)
	assert.Equal(t, "ATT-2", store.Attendance()[0].ID)
	assert.Len(t, store.Students(), 1)
	assert.Len(t, store.Diaries(), 1)

	assert.False(t, store.DeleteHistoryItem(ctx, "X1", models.HistoryType("Feedback")))
	assert.Len(t, store.Students(), 1)
}

func TestSaveSyllabusProgressUpsertsByCompositeKey(t *testing.T) {
	ctx := context.Background()
	store := NewRecordsStore(ctx, kvstore.NewMemoryStore(), "pravah_")

	store.SaveSyllabusProgress(ctx, []models.SyllabusProgress{
		{ID: "1", CenterID: "MDA-01", Week: "W1", ClassName: "5", Subject: "Math", Percentage: 20},
		{ID: "2", CenterID: "MDA-01", Week: "W1", ClassName: "5", Subject: "Science", Percentage: 30},
		{ID: "3", CenterID: "MDA-01", Week: "W2", ClassName: "5", Subject: "Math", Percentage: 40},
	})
	store.SaveSyllabusProgress(ctx, []models.SyllabusProgress{
		{ID: "4", CenterID: "MDA-01", Week: "W1", ClassName: "5", Subject: "Math", Percentage: 60},
	})

	week1 := store.SyllabusProgress("MDA-01", "W1")
	require.Len(t, week1, 2)
	assert.Equal(t, "Science", week1[0].Subject)
	assert.Equal(t, "4", week1[1].ID)
	assert.Equal(t, 60.0, week1[1].Percentage)
	assert.Len(t, store.SyllabusProgress("MDA-01", "W2"), 1)
	assert.Empty(t, store.SyllabusProgress("NGP-01", "W1"))
}

func TestRecordsStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	store := NewRecordsStore(ctx, kv, "pravah_", WithStoreClock(fixedClock("2024-06-01T10:00:00Z")))

	store.SaveStudent(ctx, models.Student{ID: "24MDAMP101", Name: "Asha", Gender: models.GenderFemale, Age: 11, CenterID: "MDA-01"})
	store.SaveStudent(ctx, models.Student{ID: "24MDAMP101", Name: "Asha K"})
	store.SaveAttendance(ctx, models.AttendanceRecord{ID: "ATT-1", Date: "2024-06-01T10:00:00.000Z", PresentStudentIDs: []string{"24MDAMP101"}, Mode: models.AttendanceModeQR, TotalStudents: 1})
	store.SaveDiary(ctx, models.DiaryEntry{ID: "D1", Date: "2024-06-01", StudentCount: 10, Volunteers: []models.DiaryVolunteerEntry{{VolunteerID: "25MDA177", Status: models.VolunteerPresent}}})
	store.SavePerformance(ctx, models.StudentPerformance{ID: "P1", StudentID: "24MDAMP101", Scores: []models.SubjectScore{{Subject: "Math", Score: 91, Grade: "A+"}}})
	store.SaveSyllabusProgress(ctx, []models.SyllabusProgress{{ID: "SP1", CenterID: "MDA-01", Week: "W1", ClassName: "5", Subject: "Math", Percentage: 25}})
	store.AddUser(ctx, models.User{VolunteerID: "25NGP001", Name: "Ravi", Password: "pw"})
	store.AddFeedback(ctx, models.Feedback{ID: "1717236000000", VolunteerID: "25MDA177", Message: "hi"})

	reloaded := NewRecordsStore(ctx, kv, "pravah_")

	assert.Equal(t, store.Students(), reloaded.Students())
	assert.Equal(t, store.Attendance(), reloaded.Attendance())
	assert.Equal(t, store.Diaries(), reloaded.Diaries())
	assert.Equal(t, store.Performance(), reloaded.Performance())
	assert.Equal(t, store.SyllabusProgress("MDA-01", "W1"), reloaded.SyllabusProgress("MDA-01", "W1"))
	assert.Equal(t, store.Feedbacks(), reloaded.Feedbacks())
	user, ok := reloaded.FindUser("25NGP001")
	require.True(t, ok)
	assert.Equal(t, "Ravi", user.Name)
}

func TestPersistedLayoutUsesPrefixedKeys(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	store := NewRecordsStore(ctx, kv, "pravah_")
	store.SaveStudent(ctx, models.Student{ID: "S1", Name: "Asha"})

	raw, err := kv.Get(ctx, "pravah_students")
	require.NoError(t, err)
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Asha", decoded[0]["name"])
	assert.NotContains(t, decoded[0], "updated")
}

func TestWriteFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{MemoryStore: kvstore.NewMemoryStore()}
	observer := newObserverStub()
	store := NewRecordsStore(ctx, kv, "pravah_", WithStoreObserver(observer))

	kv.putErr = errors.New("quota exceeded")
	saved, updated := store.SaveStudent(ctx, models.Student{ID: "S1", Name: "Asha"})

	assert.False(t, updated)
	assert.Equal(t, "S1", saved.ID)
	assert.Len(t, store.Students(), 1)
	count, err := store.PersistFailures()
	assert.Equal(t, int64(1), count)
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Equal(t, 1, observer.failures[CollectionStudents])

	_, getErr := kv.Get(ctx, "pravah_students")
	assert.ErrorIs(t, getErr, kvstore.ErrNotFound)
}

func TestWriteThroughSurvivesCancelledContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	for i := 0; i < 7; i++ {
		mock.ExpectQuery("SELECT value FROM kv_entries").WillReturnRows(sqlmock.NewRows([]string{"value"}))
	}
	mock.ExpectExec("INSERT INTO kv_entries").
		WithArgs("pravah_students", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewRecordsStore(context.Background(), kvstore.NewPostgresStore(sqlx.NewDb(db, "sqlmock")), "pravah_")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store.SaveStudent(ctx, models.Student{ID: "S1", Name: "Asha"})

	count, lastErr := store.PersistFailures()
	assert.Zero(t, count)
	assert.NoError(t, lastErr)
	assert.Len(t, store.Students(), 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersAndFeedback(t *testing.T) {
	ctx := context.Background()
	store := NewRecordsStore(ctx, kvstore.NewMemoryStore(), "pravah_")

	assert.True(t, store.AddUser(ctx, models.User{VolunteerID: "25NGP001", Name: "Ravi", Password: "a"}))
	assert.False(t, store.AddUser(ctx, models.User{VolunteerID: "25NGP001", Name: "Dup", Password: "b"}))

	user, ok := store.UpdateUser(ctx, "25NGP001", func(u *models.User) { u.Password = "c" })
	require.True(t, ok)
	assert.Equal(t, "Ravi", user.Name)
	assert.Equal(t, "c", user.Password)

	_, ok = store.UpdateUser(ctx, "NOPE", func(*models.User) {})
	assert.False(t, ok)

	store.AddFeedback(ctx, models.Feedback{ID: "1"})
	store.AddFeedback(ctx, models.Feedback{ID: "2"})
	assert.Len(t, store.Feedbacks(), 2)
}

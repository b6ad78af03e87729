package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
)

type studentStore interface {
	Students() []models.Student
	SaveStudent(ctx context.Context, student models.Student) (models.Student, bool)
}

type centerLookup interface {
	Find(id string) (models.Center, bool)
}

// placeholder fills optional admission fields left blank on the form.
const placeholder = "-"

// maxIDAttempts bounds retries when a generated student ID is already taken.
const maxIDAttempts = 10

// AdmissionRequest is the admission form payload. A blank ID asks for a generated one.
type AdmissionRequest struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name" validate:"required"`
	Gender             models.Gender `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	DOB                string        `json:"dob"`
	Age                int           `json:"age" validate:"gte=0,lte=120"`
	ClassLevel         string        `json:"classLevel"`
	SchoolName         string        `json:"schoolName"`
	ParentName         string        `json:"parentName"`
	ParentOccupation   string        `json:"parentOccupation"`
	Aadhaar            string        `json:"aadhaar"`
	Contact            string        `json:"contact"`
	RegistrationNumber string        `json:"registrationNumber"`
	AdmissionDate      string        `json:"admissionDate"`
	CenterID           string        `json:"centerId" validate:"required"`
	AdmissionFormFile  string        `json:"admissionFormFile"`
}

// StudentSaveResult reports the stored record and whether it replaced an existing one.
type StudentSaveResult struct {
	Student models.Student `json:"student"`
	Updated bool           `json:"updated"`
}

// StudentService handles admissions.
type StudentService struct {
	store     studentStore
	centers   centerLookup
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	intn      func(n int) int
}

// NewStudentService constructs the student service.
func NewStudentService(store studentStore, centers centerLookup, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &StudentService{
		store:     store,
		centers:   centers,
		validator: validate,
		logger:    logger,
		now:       time.Now,
		intn:      rng.Intn,
	}
}

// List returns every student, or only those of centerID when it is set.
func (s *StudentService) List(centerID string) []models.Student {
	students := s.store.Students()
	if centerID == "" {
		return students
	}
	out := make([]models.Student, 0, len(students))
	for _, st := range students {
		if st.CenterID == centerID {
			out = append(out, st)
		}
	}
	return out
}

// Add admits a student. Resubmitting an existing ID merges into that record.
func (s *StudentService) Add(ctx context.Context, req AdmissionRequest) (*StudentSaveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid admission payload")
	}

	id := strings.ToUpper(strings.TrimSpace(req.ID))
	if id == "" {
		id = s.generateID(req.CenterID)
	}

	student := models.Student{
		ID:                 id,
		Name:               strings.TrimSpace(req.Name),
		Gender:             req.Gender,
		DOB:                orPlaceholder(req.DOB),
		Age:                req.Age,
		ClassLevel:         req.ClassLevel,
		SchoolName:         orPlaceholder(req.SchoolName),
		ParentName:         req.ParentName,
		ParentOccupation:   orPlaceholder(req.ParentOccupation),
		Aadhaar:            orPlaceholder(req.Aadhaar),
		Contact:            req.Contact,
		RegistrationNumber: orPlaceholder(req.RegistrationNumber),
		AdmissionDate:      req.AdmissionDate,
		CenterID:           req.CenterID,
		AdmissionFormFile:  req.AdmissionFormFile,
	}
	if student.AdmissionDate == "" {
		student.AdmissionDate = s.now().Format(models.DateLayout)
	}

	saved, updated := s.store.SaveStudent(ctx, student)
	if updated {
		s.logger.Info("student record updated", zap.String("student_id", saved.ID))
	}
	return &StudentSaveResult{Student: saved, Updated: updated}, nil
}

// generateID builds {YY}{city}{short}{100-999}. Unknown centers use XX codes.
// A generated ID that is already taken is drawn again so it never merges into another student.
func (s *StudentService) generateID(centerID string) string {
	city, short := "XX", "XX"
	if center, ok := s.centers.Find(centerID); ok {
		if center.CityCode != "" {
			city = center.CityCode
		}
		if center.ShortCode != "" {
			short = center.ShortCode
		}
	}
	taken := make(map[string]struct{})
	for _, st := range s.store.Students() {
		taken[st.ID] = struct{}{}
	}

	var id string
	for i := 0; i < maxIDAttempts; i++ {
		id = strings.ToUpper(fmt.Sprintf("%s%s%s%d", s.now().Format("06"), city, short, 100+s.intn(900)))
		if _, ok := taken[id]; !ok {
			return id
		}
	}
	s.logger.Warn("generated student id collides with an existing record", zap.String("student_id", id))
	return id
}

func orPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}

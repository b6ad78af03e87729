package service

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/analytics"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/export"
)

// fieldHeaders is the layout of documents that list one record as label/value pairs.
var fieldHeaders = []string{"Field", "Value"}

func recordNotFound(kind models.ExportKind, id string) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s record %s not found", kind, id))
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func (s *ExportService) findStudent(id string) (models.Student, bool) {
	for _, st := range s.source.Students() {
		if st.ID == id {
			return st, true
		}
	}
	return models.Student{}, false
}

func (s *ExportService) admissionDataset(params models.ExportParams) (export.Dataset, error) {
	st, ok := s.findStudent(studentKey(params.RecordID))
	if !ok {
		return export.Dataset{}, recordNotFound(params.Kind, params.RecordID)
	}

	title := "Admission Form"
	if st.Updated {
		title = "Updated Admission"
	}
	return export.Dataset{
		Title:   title,
		Summary: []string{"Student ID: " + st.ID, "Center: " + s.centerName(st.CenterID)},
		Headers: fieldHeaders,
		Rows: [][]string{
			{"Student ID", st.ID},
			{"Registration No.", orDash(st.RegistrationNumber)},
			{"Full Name", st.Name},
			{"Gender", string(st.Gender)},
			{"Date of Birth", st.DOB},
			{"Age", strconv.Itoa(st.Age)},
			{"Class", st.ClassLevel},
			{"School Name", st.SchoolName},
			{"Father/Guardian Name", st.ParentName},
			{"Occupation", orDash(st.ParentOccupation)},
			{"Contact Number", st.Contact},
			{"Aadhaar Number", orDash(st.Aadhaar)},
			{"Admission Date", st.AdmissionDate},
		},
	}, nil
}

func (s *ExportService) attendanceSessionDataset(params models.ExportParams) (export.Dataset, error) {
	var (
		record models.AttendanceRecord
		found  bool
	)
	for _, a := range s.source.Attendance() {
		if a.ID == params.RecordID {
			record, found = a, true
			break
		}
	}
	if !found {
		return export.Dataset{}, recordNotFound(params.Kind, params.RecordID)
	}

	present := len(record.PresentStudentIDs)
	percent := 0
	if record.TotalStudents > 0 {
		percent = int(math.Round(float64(present) / float64(record.TotalStudents) * 100))
	}

	rows := make([][]string, 0)
	for _, st := range s.source.Students() {
		if params.CenterID != "" && st.CenterID != params.CenterID {
			continue
		}
		status := "Absent"
		if record.IsPresent(st.ID) {
			status = "Present"
		}
		rows = append(rows, []string{strconv.Itoa(len(rows) + 1), st.Name, st.ClassLevel, st.ID, status})
	}

	title := "Attendance Report"
	if record.Updated {
		title = "Updated Attendance Report"
	}
	return export.Dataset{
		Title: title,
		Summary: []string{
			"Date: " + models.DayPart(record.Date),
			"Mode: " + string(record.Mode),
			fmt.Sprintf("Total Students: %d", record.TotalStudents),
			fmt.Sprintf("Present: %d (%d%%)", present, percent),
		},
		Headers: []string{"#", "Student Name", "Class", "Student ID", "Status"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) diaryDataset(params models.ExportParams) (export.Dataset, error) {
	var (
		entry models.DiaryEntry
		found bool
	)
	for _, d := range s.source.Diaries() {
		if d.ID == params.RecordID {
			entry, found = d, true
			break
		}
	}
	if !found {
		return export.Dataset{}, recordNotFound(params.Kind, params.RecordID)
	}

	rows := make([][]string, 0, len(entry.Volunteers))
	for _, v := range entry.Volunteers {
		subject := v.Subject
		if v.Topic != "" {
			subject = fmt.Sprintf("%s (%s)", v.Subject, v.Topic)
		}
		rows = append(rows, []string{v.VolunteerID, v.Name, string(v.Status), v.ClassHandled, subject})
	}

	return export.Dataset{
		Title: "Diary Log",
		Summary: []string{
			"Date: " + entry.Date,
			fmt.Sprintf("Students Present: %d", entry.StudentCount),
			fmt.Sprintf("Center Timing: %s - %s", entry.InTime, entry.OutTime),
			"Thought of the Day: " + orDash(entry.Thought),
		},
		Headers: []string{"ID", "Volunteer Name", "Status", "Class", "Subject/Topic"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) performanceTestDataset(params models.ExportParams) (export.Dataset, error) {
	var (
		test  models.StudentPerformance
		found bool
	)
	for _, p := range s.source.Performance() {
		if p.ID == params.RecordID {
			test, found = p, true
			break
		}
	}
	if !found {
		return export.Dataset{}, recordNotFound(params.Kind, params.RecordID)
	}

	student := test.StudentID
	className := "-"
	if st, ok := s.findStudent(test.StudentID); ok {
		student = fmt.Sprintf("%s (%s)", st.Name, st.ID)
		className = orDash(st.ClassLevel)
	}

	rows := make([][]string, 0, len(test.Scores))
	total := 0.0
	for _, sc := range test.Scores {
		total += sc.Score
		rows = append(rows, []string{sc.Subject, formatScore(sc.Score), sc.Grade, sc.Remarks})
	}
	summary := []string{
		"Student: " + student,
		"Class: " + className,
		"Test: " + test.TestName,
		"Date: " + test.Date,
	}
	if len(test.Scores) > 0 {
		summary = append(summary, "Test average: "+formatPercent(total/float64(len(test.Scores))))
	}
	if result := analytics.Performance(s.source.PerformanceByStudent(test.StudentID)); result != nil {
		summary = append(summary, "Overall average: "+formatPercent(result.Average))
	}

	return export.Dataset{
		Title:   fmt.Sprintf("Performance Report - %s", test.TestName),
		Summary: summary,
		Headers: []string{"Subject", "Score", "Grade", "Remarks"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) historyRecordDataset(params models.ExportParams) (export.Dataset, error) {
	items := analytics.FilterHistory(analytics.History(s.source.Students(), s.source.Attendance(), s.source.Diaries()), params.Type)
	for _, item := range items {
		if item.ID != params.RecordID {
			continue
		}
		rows, err := dumpFields(item.Data)
		if err != nil {
			return export.Dataset{}, err
		}
		return export.Dataset{
			Title: "History Record - " + string(item.Type),
			Summary: []string{
				"Record Type: " + string(item.Type),
				"Date: " + item.Date,
				"Summary: " + item.Details,
			},
			Headers: fieldHeaders,
			Rows:    rows,
		}, nil
	}
	return export.Dataset{}, recordNotFound(params.Kind, params.RecordID)
}

// dumpFields flattens a record into sorted field/value rows, leaving out list fields.
func dumpFields(record interface{}) ([][]string, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode history record: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode history record: %w", err)
	}

	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if k == "presentStudentIds" || k == "volunteers" {
			continue
		}
		if _, isList := v.([]interface{}); isList {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprint(fields[k])})
	}
	return rows, nil
}

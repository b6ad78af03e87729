// Package analytics derives summaries from snapshots of the records store.
// Every function is pure: inputs are never mutated and results share no memory with them.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
)

// attentionTestCount is how many tests with a low mark flag a student as needing attention.
const attentionTestCount = 3

// Performance summarises the tests of one student. It returns nil when there are no tests.
func Performance(records []models.StudentPerformance) *models.PerformanceAnalytics {
	if len(records) == 0 {
		return nil
	}

	type subjectSum struct {
		total float64
		count int
	}
	var (
		total        float64
		count        int
		lowMarkTests int
		lowMark      bool
		sums         = make(map[string]*subjectSum)
		order        []string
	)
	for _, record := range records {
		testHasLowMark := false
		for _, s := range record.Scores {
			total += s.Score
			count++
			if s.Score < models.LowMarkThreshold {
				testHasLowMark = true
				lowMark = true
			}
			sum, ok := sums[s.Subject]
			if !ok {
				sum = &subjectSum{}
				sums[s.Subject] = sum
				order = append(order, s.Subject)
			}
			sum.total += s.Score
			sum.count++
		}
		if testHasLowMark {
			lowMarkTests++
		}
	}

	result := &models.PerformanceAnalytics{
		NeedsAttention: lowMarkTests >= attentionTestCount,
		LowMarkAlert:   lowMark,
	}
	if count == 0 {
		return result
	}
	result.Average = total / float64(count)

	// strict comparisons keep the first-seen subject on ties
	for _, subject := range order {
		avg := models.SubjectAverage{Subject: subject, Avg: sums[subject].total / float64(sums[subject].count)}
		if result.Strongest == nil || avg.Avg > result.Strongest.Avg {
			strongest := avg
			result.Strongest = &strongest
		}
		if result.Weakest == nil || avg.Avg < result.Weakest.Avg {
			weakest := avg
			result.Weakest = &weakest
		}
	}
	return result
}

// Trend returns the per-test average score ordered by test date, oldest first.
func Trend(records []models.StudentPerformance) []models.TrendPoint {
	points := make([]models.TrendPoint, 0, len(records))
	for _, record := range records {
		var sum float64
		for _, s := range record.Scores {
			sum += s.Score
		}
		point := models.TrendPoint{TestID: record.ID, TestName: record.TestName, Date: record.Date}
		if len(record.Scores) > 0 {
			point.Average = sum / float64(len(record.Scores))
		}
		points = append(points, point)
	}
	sort.SliceStable(points, func(i, j int) bool {
		return dateBefore(points[i].Date, points[j].Date)
	})
	return points
}

// MonthlyReport computes attendance for the students of a center (and class) in one month.
// Every attendance capture in the month counts as a working day, whatever the class filter.
func MonthlyReport(students []models.Student, attendance []models.AttendanceRecord, filter models.MonthlyReportFilter) models.MonthlyReport {
	selected := make([]models.Student, 0, len(students))
	for _, s := range students {
		if s.CenterID != filter.CenterID {
			continue
		}
		if filter.ClassName != models.AllClasses && s.ClassLevel != filter.ClassName {
			continue
		}
		selected = append(selected, s)
	}

	inMonth := make([]models.AttendanceRecord, 0, len(attendance))
	for _, record := range attendance {
		t, ok := models.ParseDate(record.Date)
		if !ok {
			continue
		}
		if int(t.Month())-1 == filter.Month && t.Year() == filter.Year {
			inMonth = append(inMonth, record)
		}
	}
	workingDays := len(inMonth)

	stats := make([]models.StudentMonthlyStat, 0, len(selected))
	var percentageSum float64
	for _, s := range selected {
		present := 0
		for _, record := range inMonth {
			if record.IsPresent(s.ID) {
				present++
			}
		}
		stat := models.StudentMonthlyStat{StudentID: s.ID, Name: s.Name, PresentDays: present}
		if workingDays > 0 {
			stat.Percentage = float64(present) / float64(workingDays) * 100
		}
		percentageSum += stat.Percentage
		stats = append(stats, stat)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Percentage > stats[j].Percentage
	})

	report := models.MonthlyReport{
		Month:         monthName(filter.Month),
		Year:          filter.Year,
		ClassName:     filter.ClassName,
		WorkingDays:   workingDays,
		TotalStudents: len(selected),
		StudentStats:  stats,
	}
	if len(selected) > 0 {
		report.AverageAttendance = percentageSum / float64(len(selected))
	}
	return report
}

// History merges admissions, attendance sessions and diary entries, newest first.
// Items with equal dates keep the Admission, Attendance, Diary order.
func History(students []models.Student, attendance []models.AttendanceRecord, diaries []models.DiaryEntry) []models.HistoryItem {
	items := make([]models.HistoryItem, 0, len(students)+len(attendance)+len(diaries))
	for _, s := range students {
		items = append(items, models.HistoryItem{
			ID:      s.ID,
			Type:    models.HistoryAdmission,
			Date:    s.AdmissionDate,
			Details: "Student: " + s.Name,
			Data:    s,
			Updated: s.Updated,
		})
	}
	for _, a := range attendance {
		items = append(items, models.HistoryItem{
			ID:      a.ID,
			Type:    models.HistoryAttendance,
			Date:    models.DayPart(a.Date),
			Details: fmt.Sprintf("%d Students Present (%s)", a.TotalStudents, a.Mode),
			Data:    a.Clone(),
			Updated: a.Updated,
		})
	}
	for _, d := range diaries {
		items = append(items, models.HistoryItem{
			ID:      d.ID,
			Type:    models.HistoryDiary,
			Date:    d.Date,
			Details: fmt.Sprintf("Students: %d, Volunteers: %d", d.StudentCount, len(d.Volunteers)),
			Data:    d.Clone(),
			Updated: d.Updated,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return dateAfter(items[i].Date, items[j].Date)
	})
	return items
}

// FilterHistory keeps the items of one type; an empty type or "ALL" keeps everything.
func FilterHistory(items []models.HistoryItem, kind string) []models.HistoryItem {
	if kind == "" || kind == "ALL" {
		return items
	}
	filtered := make([]models.HistoryItem, 0, len(items))
	for _, item := range items {
		if string(item.Type) == kind {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// dateBefore orders parseable dates chronologically and puts unparseable ones last.
func dateBefore(a, b string) bool {
	ta, okA := models.ParseDate(a)
	tb, okB := models.ParseDate(b)
	switch {
	case okA && okB:
		return ta.Before(tb)
	case okA:
		return true
	default:
		return false
	}
}

// dateAfter orders parseable dates newest first and puts unparseable ones last.
func dateAfter(a, b string) bool {
	ta, okA := models.ParseDate(a)
	tb, okB := models.ParseDate(b)
	switch {
	case okA && okB:
		return ta.After(tb)
	case okA:
		return true
	default:
		return false
	}
}

func monthName(month int) string {
	if month < 0 || month > 11 {
		return ""
	}
	return time.Month(month + 1).String()
}

// Package seed provides the fixed initial dataset for the campus store.
// Records are constructed through the domain factories, so the derived
// risk and crowd fields are materialized by the scoring engine exactly
// once, at load time.
package seed

import (
	"fmt"

	"github.com/campus-hub/campus-ops-hub/internal/domain/scoring"
	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
	"github.com/campus-hub/campus-ops-hub/internal/domain/transit"
)

// sampleDues is the shared dues set referenced by several seed students.
func sampleDues() []student.AcademicDue {
	return []student.AcademicDue{
		{ID: "D1", Category: "Tuition Fee", Amount: 1500, DueDate: "2025-05-15", Status: student.DuePending},
		{ID: "D2", Category: "Library Fine", Amount: 25, DueDate: "2025-04-10", Status: student.DueOverdue},
		{ID: "D3", Category: "Lab Charges", Amount: 200, DueDate: "2025-06-01", Status: student.DuePaid},
	}
}

// Students returns the seed student collection in its canonical order.
func Students() ([]*student.Student, error) {
	dues := sampleDues()

	params := []student.NewStudentParams{
		{
			ID:         "S001",
			Name:       "Alex Johnson",
			Attendance: 92,
			Marks:      scoring.Marks{Math: 85, Science: 78, History: 88, English: 90, CS: 95},
			Dues:       dues,
			PerformanceHistory: []student.TermGPA{
				{Term: "Sem 1", GPA: 3.1}, {Term: "Sem 2", GPA: 3.4},
				{Term: "Sem 3", GPA: 3.2}, {Term: "Current", GPA: 3.8},
			},
		},
		{
			ID:         "S002",
			Name:       "Maria Garcia",
			Attendance: 75,
			Marks:      scoring.Marks{Math: 62, Science: 58, History: 70, English: 80, CS: 65},
			Dues:       []student.AcademicDue{dues[0], dues[2]},
			PerformanceHistory: []student.TermGPA{
				{Term: "Sem 1", GPA: 2.8}, {Term: "Sem 2", GPA: 2.9},
				{Term: "Sem 3", GPA: 3.1}, {Term: "Current", GPA: 3.0},
			},
		},
		{
			ID:         "S003",
			Name:       "Liam Chen",
			Attendance: 45,
			Marks:      scoring.Marks{Math: 35, Science: 40, History: 55, English: 60, CS: 42},
			Dues:       dues,
			PerformanceHistory: []student.TermGPA{
				{Term: "Sem 1", GPA: 2.5}, {Term: "Sem 2", GPA: 2.1},
				{Term: "Sem 3", GPA: 2.0}, {Term: "Current", GPA: 1.8},
			},
		},
		{
			ID:         "S004",
			Name:       "Sarah Smith",
			Attendance: 98,
			Marks:      scoring.Marks{Math: 95, Science: 98, History: 92, English: 96, CS: 99},
			Dues:       []student.AcademicDue{dues[2]},
			PerformanceHistory: []student.TermGPA{
				{Term: "Sem 1", GPA: 3.9}, {Term: "Sem 2", GPA: 4.0},
				{Term: "Sem 3", GPA: 4.0}, {Term: "Current", GPA: 4.0},
			},
		},
		{
			ID:         "S005",
			Name:       "James Wilson",
			Attendance: 60,
			Marks:      scoring.Marks{Math: 45, Science: 50, History: 65, English: 55, CS: 48},
			Dues:       dues,
			PerformanceHistory: []student.TermGPA{
				{Term: "Sem 1", GPA: 2.9}, {Term: "Sem 2", GPA: 2.5},
				{Term: "Sem 3", GPA: 2.6}, {Term: "Current", GPA: 2.4},
			},
		},
	}

	students := make([]*student.Student, 0, len(params))
	for _, p := range params {
		s, err := student.New(p)
		if err != nil {
			return nil, fmt.Errorf("seed student %s: %w", p.ID, err)
		}
		students = append(students, s)
	}
	return students, nil
}

// Buses returns the seed bus collection in its canonical order.
func Buses() ([]*transit.Bus, error) {
	params := []transit.NewBusParams{
		{ID: "B101", Route: "Route A - Downtown", Capacity: 50, CurrentOccupancy: 12, Status: transit.StatusOnTime, NextStop: "Central Library"},
		{ID: "B102", Route: "Route B - North Campus", Capacity: 50, CurrentOccupancy: 48, Status: transit.StatusDelayed, NextStop: "Science Block"},
		{ID: "B103", Route: "Route C - West Dorms", Capacity: 40, CurrentOccupancy: 25, Status: transit.StatusOnTime, NextStop: "Main Gate"},
		{ID: "B104", Route: "Route D - Sports Complex", Capacity: 60, CurrentOccupancy: 58, Status: transit.StatusOnTime, NextStop: "Stadium"},
	}

	buses := make([]*transit.Bus, 0, len(params))
	for _, p := range params {
		b, err := transit.New(p)
		if err != nil {
			return nil, fmt.Errorf("seed bus %s: %w", p.ID, err)
		}
		buses = append(buses, b)
	}
	return buses, nil
}

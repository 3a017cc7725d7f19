package domain

import "time"

type Committee struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CommitteeSeed struct {
	Name        string
	Description string
}

// DefaultCommittees is the fixed catalog created at startup, in order.
var DefaultCommittees = []CommitteeSeed{
	{"Human Resource Merit Promotion & Selection Board", "Handles promotions and merit-based selections"},
	{"Human Resource Committee", "Manages HR policies and practices"},
	{"Janitorial Inspection Monitoring Team Committee", "Oversees janitorial services and quality"},
	{"Security Committee", "Handles security matters and policies"},
	{"Sports and Development Committee", "Organizes sports events and related activities"},
	{"Search Committee", "Responsible for searching qualified candidates for positions"},
	{"Bids and Awards Committee", "Handles procurement and bidding processes"},
	{"Gender and Development Committee", "Promotes gender equality and inclusivity"},
	{"Cultural Committee", "Organizes cultural events and activities"},
	{"Finance Committee", "Manages financial affairs and budgeting"},
	{"Education and Training Committee", "Handles educational programs and training"},
	{"Health and Wellness Committee", "Promotes health and wellness initiatives"},
	{"Environmental Committee", "Handles environmental concerns and programs"},
	{"Grievance Committee", "Addresses complaints and grievances"},
	{"Other", "For committees not specified in the list"},
}

package domain

import "time"

// Report is a composed error report ready to be shown, copied or stored.
type Report struct {
	ID             string    `json:"id"`
	ServerTime     time.Time `json:"server_time"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	PackageName    string    `json:"package_name"`
	PackageVersion int       `json:"package_version"`
	ProcessName    string    `json:"process_name"`
	Installer      string    `json:"installer,omitempty"`
	Text           string    `json:"text"`
	Clipboard      string    `json:"clipboard"`
	IssueURL       string    `json:"issue_url,omitempty"`
}

type ReportBatch struct {
	ID      string   `json:"id"`
	Reports []Report `json:"reports"`
}

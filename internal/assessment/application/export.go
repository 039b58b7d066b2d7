package application

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

// ExportHeader is the column order of the staff CSV export.
var ExportHeader = []string{
	"Date",
	"Name",
	"Email",
	"Company",
	"Phone",
	"Total Score",
	"Percentage",
	"Level",
	"Follow-up Status",
}

// WriteSubmissionsCSV writes one row per submission in the given order.
func WriteSubmissionsCSV(w io.Writer, submissions []domain.Submission, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, s := range submissions {
		completed := s.CompletedAt
		if completed.IsZero() {
			completed = s.CreatedAt
		}
		row := []string{
			completed.In(loc).Format("2006-01-02"),
			s.Contact.Name,
			s.Contact.Email.String(),
			s.Contact.Company,
			s.Contact.Phone,
			strconv.Itoa(s.TotalScore),
			fmt.Sprintf("%d%%", s.Percentage),
			s.ScoreLevel,
			s.FollowUpStatus.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

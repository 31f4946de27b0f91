// Package report writes bulk-create results for the people who run imports.
package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"course-bulk/internal/backend"
)

// Keep header order EXACT: downstream sheets match on position.
var resultsHeader = []string{
	"INDEX",
	"COURSE_NAME",
	"STATUS",
	"COURSE_ID",
	"PACKAGE_SESSION_IDS",
	"ENROLL_INVITE_IDS",
	"PAYMENT_OPTION_ID",
	"ERROR_MESSAGE",
}

// WriteResultsCSV writes one row per result, in index order as returned.
func WriteResultsCSV(w io.Writer, resp *backend.CreationResponse) error {
	cw := csv.NewWriter(w)
	// match typical templates
	cw.UseCRLF = true

	if err := cw.Write(resultsHeader); err != nil {
		return err
	}
	if resp != nil {
		for _, it := range resp.Results {
			if err := cw.Write(toResultRow(it)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func toResultRow(it backend.ItemResult) []string {
	return []string{
		strconv.Itoa(it.Index),
		it.CourseName,
		it.Status,
		it.CourseID,
		joinIDs(it.PackageSessionIDs),
		joinIDs(it.EnrollInviteIDs),
		it.PaymentOptionID,
		oneLine(it.ErrorMessage),
	}
}

// joinIDs avoids commas to keep CSV clean.
func joinIDs(ids []string) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return strings.Join(out, " | ")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

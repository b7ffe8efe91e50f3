// Package report prints the records of reported sequence steps.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"

	"bookops/internal/book"
)

// Format selects how reports are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("unknown report format")

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Writer renders one report per call to Report.
type Writer struct {
	w      io.Writer
	format Format
}

func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

type document struct {
	Title string      `json:"title"`
	Count int         `json:"count"`
	Books []book.Book `json:"books"`
}

func (w *Writer) Report(title string, books []book.Book) error {
	switch w.format {
	case FormatJSON:
		return w.writeJSON(title, books)
	case FormatText, "":
		return w.writeText(title, books)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, w.format)
}

func (w *Writer) writeJSON(title string, books []book.Book) error {
	if books == nil {
		books = []book.Book{}
	}
	b, err := json.MarshalIndent(document{Title: title, Count: len(books), Books: books}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report %q: %w", title, err)
	}
	b = append(b, '\n')
	if _, err := w.w.Write(b); err != nil {
		return fmt.Errorf("write report %q: %w", title, err)
	}
	return nil
}

func (w *Writer) writeText(title string, books []book.Book) error {
	if _, err := fmt.Fprintf(w.w, "%s:\n", title); err != nil {
		return fmt.Errorf("write report %q: %w", title, err)
	}

	tw := tabwriter.NewWriter(w.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BOOK ID\tTITLE\tAUTHOR\tCATEGORY\tPRICE\tIN STOCK")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n",
			b.BookID, b.Title, b.Author, b.Category, formatPrice(b.Price), b.InStock)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write report %q: %w", title, err)
	}

	if _, err := fmt.Fprintf(w.w, "(%d records)\n\n", len(books)); err != nil {
		return fmt.Errorf("write report %q: %w", title, err)
	}
	return nil
}

// formatPrice prints the shortest representation that round-trips, so 50 prints as "50" and 35.99 as "35.99".
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

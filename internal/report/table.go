package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/i474232898/weather-prediction/internal/prediction"
	"github.com/i474232898/weather-prediction/internal/weather"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)
}

// WritePredictions renders the reconciled predictions of r as a table, one
// row per day with a column per source.
func WritePredictions(w io.Writer, r weather.Report) error {
	if !r.Available {
		_, err := fmt.Fprintf(w, "%s: not enough history for a prediction (%d days)\n", r.Location.Name, len(r.Historical))
		return err
	}

	sources := sourceNames(r.Forecasts)

	header := []string{"Date", "Predicted High", "Predicted Low"}
	for _, s := range sources {
		header = append(header, s+" High", s+" Low")
	}
	header = append(header, "Confidence")

	rows := make([][]string, 0, len(r.Predictions))
	for _, rec := range r.Predictions {
		row := []string{rec.Date.String(), degrees(rec.PredictedHigh), degrees(rec.PredictedLow)}
		for _, s := range sources {
			row = append(row, optional(rec.HighFrom(s)), optional(rec.LowFrom(s)))
		}
		row = append(row, colorize(rec.Confidence))
		rows = append(rows, row)
	}

	if _, err := fmt.Fprintf(w, "%s, %s (agreement within ±%s°F)\n", r.Location.Name, r.Location.Country, strconv.FormatFloat(r.Tolerance, 'f', -1, 64)); err != nil {
		return err
	}

	t := newTable(w)
	t.Header(header)
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

// WriteLine renders a trend-only projection.
func WriteLine(w io.Writer, line []prediction.DailyObservation) error {
	t := newTable(w)
	t.Header([]string{"Date", "Trend High", "Trend Low"})
	rows := make([][]string, 0, len(line))
	for _, obs := range line {
		rows = append(rows, []string{obs.Date.String(), degrees(obs.High), degrees(obs.Low)})
	}
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

// WriteCities renders the city catalog.
func WriteCities(w io.Writer, cities []weather.Location) error {
	t := newTable(w)
	t.Header([]string{"City", "Country", "Lat", "Lon", "Timezone"})
	rows := make([][]string, 0, len(cities))
	for _, c := range cities {
		rows = append(rows, []string{
			c.Name,
			c.Country,
			strconv.FormatFloat(c.Lat, 'f', 4, 64),
			strconv.FormatFloat(c.Lon, 'f', 4, 64),
			c.Timezone,
		})
	}
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

func sourceNames(forecasts map[string][]prediction.DailyObservation) []string {
	names := make([]string, 0, len(forecasts))
	for name := range forecasts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func degrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "°"
}

func optional(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return degrees(v)
}

func colorize(c prediction.Confidence) string {
	switch c {
	case prediction.ConfidenceHigh:
		return color.GreenString(string(c))
	case prediction.ConfidenceMedium:
		return color.YellowString(string(c))
	default:
		return color.RedString(string(c))
	}
}

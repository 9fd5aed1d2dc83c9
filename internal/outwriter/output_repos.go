package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/schema"
)

// WriteRepositories outputs registered repositories in the configured format.
func WriteRepositories(w io.Writer, repos []schema.Repository, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, repos)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"id", "name", "full_name", "private", "updated_at"}, func(cw *csv.Writer) error {
				for _, r := range repos {
					if err := cw.Write([]string{
						strconv.FormatInt(r.ID, 10),
						r.Name,
						r.FullName,
						strconv.FormatBool(r.Private),
						formatTime(&r.UpdatedAt),
					}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Name", "Full Name", "Private", "Updated"})
	var data [][]string
	for _, r := range repos {
		data = append(data, []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			r.FullName,
			yesNo(r.Private),
			formatTime(&r.UpdatedAt),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "%d repositories registered\n", len(repos))
	return nil
}

// WriteRepositoryDetail outputs one repository and its scans, newest first as returned.
func WriteRepositoryDetail(w io.Writer, detail schema.RepositoryDetail, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, detail)
		}, "Wrote JSON")
	}

	fmtFloat, _ := createFormatters(cfg.Precision)
	_, _ = fmt.Fprintf(w, "Repository #%d %s\n", detail.ID, detail.FullName)
	if detail.HTMLURL != "" {
		_, _ = fmt.Fprintln(w, detail.HTMLURL)
	}
	if len(detail.Scans) == 0 {
		_, _ = fmt.Fprintln(w, "No scans yet.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Scan", "Status", "Created", "Completed", "Files", "Avg Score"})
	var data [][]string
	for _, j := range detail.Scans {
		avg := "-"
		if j.AvgSprawlScore != nil {
			avg = fmtFloat(*j.AvgSprawlScore)
		}
		data = append(data, []string{
			strconv.FormatInt(j.ID, 10),
			contract.GetStatusLabel(j.Status),
			formatTime(&j.CreatedAt),
			formatTime(j.CompletedAt),
			formatOptionalInt(j.TotalFiles),
			avg,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteGithubRepos outputs repositories available for registration.
func WriteGithubRepos(w io.Writer, repos []schema.GithubRepo, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, repos)
		}, "Wrote JSON")
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Full Name", "Language", "Stars", "Private", "Description"})
	descWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for _, r := range repos {
		data = append(data, []string{
			strconv.FormatInt(r.ID, 10),
			r.FullName,
			formatOptionalString(r.Language),
			strconv.Itoa(r.StargazersCount),
			yesNo(r.IsPrivate),
			truncateText(formatOptionalString(r.Description), descWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "%d repositories found\n", len(repos))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// truncateText shortens free text to maxWidth runes with a trailing ellipsis.
func truncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

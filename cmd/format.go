package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hindsight-tools/hindsight/pkg/core"
	"github.com/hindsight-tools/hindsight/pkg/search"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	pageTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	annotationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("108")).
			Margin(0, 0, 0, 3)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Margin(1, 0, 0, 0)
)

// formatResults renders ranked search results. pageData carries titles for
// display; pages missing from it render with their URL only.
func formatResults(pages []search.PageResult, pageData map[string]core.Page, heading string) string {
	var output strings.Builder

	output.WriteString(titleStyle.Render(heading))
	output.WriteString("\n")

	if len(pages) == 0 {
		output.WriteString(noDataStyle.Render("No results found."))
		output.WriteString("\n")
		return output.String()
	}

	for i, page := range pages {
		if i > 0 {
			output.WriteString("\n")
		}

		if p, ok := pageData[page.URL]; ok && p.Title != "" {
			output.WriteString(pageTitleStyle.Render(p.Title))
			output.WriteString("\n")
		}
		output.WriteString(urlStyle.Render(page.URL))
		output.WriteString("\n")
		output.WriteString(metaStyle.Render(formatTime(time.UnixMilli(page.Timestamp))))
		output.WriteString("\n")

		for _, annotation := range page.Annotations {
			output.WriteString(annotationStyle.Render(formatAnnotation(annotation)))
			output.WriteString("\n")
		}
	}

	output.WriteString(summaryStyle.Render(fmt.Sprintf("%d results", len(pages))))
	output.WriteString("\n")
	return output.String()
}

func formatAnnotation(a core.Annotation) string {
	var parts []string
	if a.Body != "" {
		parts = append(parts, fmt.Sprintf("“%s”", truncate(a.Body, 120)))
	}
	if a.Comment != "" {
		parts = append(parts, truncate(a.Comment, 120))
	}
	return strings.Join(parts, " · ")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

// formatTime formats a time relative to now or as an absolute date
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < 24*time.Hour && diff >= 0 {
		if diff < time.Hour {
			minutes := int(diff.Minutes())
			if minutes < 1 {
				return "just now"
			}
			return fmt.Sprintf("%d minutes ago", minutes)
		}
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	}

	if diff < 7*24*time.Hour && diff >= 0 {
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	}

	if t.Year() == now.Year() {
		return t.Format("Jan 2, 15:04")
	}
	return t.Format("Jan 2, 2006")
}

// formatNumber formats a number with K/M suffixes for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// formatStats formats storage statistics for display
func formatStats(stats map[string]interface{}) {
	fmt.Printf("📊 Storage Statistics\n")
	fmt.Printf("═══════════════════════\n\n")

	titler := cases.Title(language.English)
	var counts []string
	for key, value := range stats {
		if count, ok := value.(int); ok {
			counts = append(counts, fmt.Sprintf("%s: %s", titler.String(key), formatNumber(count)))
		}
	}
	sort.Strings(counts)
	for _, line := range counts {
		fmt.Println(line)
	}

	oldest, okOldest := stats["oldest_activity"].(int64)
	newest, okNewest := stats["newest_activity"].(int64)
	if okOldest && okNewest {
		fmt.Printf("\nOldest activity: %s\n", formatTime(time.UnixMilli(oldest)))
		fmt.Printf("Newest activity: %s\n", formatTime(time.UnixMilli(newest)))
	}
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// displayWithPager displays content using a pager
func displayWithPager(content string) error {
	pagerCmd := os.Getenv("PAGER")
	if pagerCmd == "" {
		for _, pager := range []string{"less", "more", "cat"} {
			if _, err := exec.LookPath(pager); err == nil {
				pagerCmd = pager
				break
			}
		}
	}

	if pagerCmd == "" {
		fmt.Print(content)
		return nil
	}

	args := []string{}
	if pagerCmd == "less" {
		args = []string{"-R", "-F", "-X"}
	}

	pager := exec.Command(pagerCmd, args...)
	pager.Stdin = strings.NewReader(content)
	pager.Stdout = os.Stdout
	pager.Stderr = os.Stderr
	return pager.Run()
}

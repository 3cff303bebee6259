// package formatter renders catalog collections as JSON, CSV, Markdown or plain text
package formatter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotx/internal/models"
	"github.com/desertthunder/spotx/internal/shared"
)

// Format names an output format accepted by --format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat returns the format named s. "md" and "txt" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Metadata is a collection summary without its tracks.
type Metadata struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Public      bool   `json:"public"`
	TrackCount  int    `json:"track_count"`
	Duration    int    `json:"duration"`
}

// MetadataOf summarizes c.
func MetadataOf(c *models.Collection) Metadata {
	return Metadata{
		ID:          c.ID,
		Kind:        c.Kind,
		Name:        c.Name,
		Description: c.Description,
		Owner:       c.Owner,
		ImageURL:    c.ImageURL,
		Public:      c.Public,
		TrackCount:  len(c.Tracks),
		Duration:    c.Duration(),
	}
}

// Render writes c to w in format f.
func Render(w io.Writer, c *models.Collection, f Format, pretty bool) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, c, pretty)
	case FormatCSV:
		return WriteCSV(w, c)
	case FormatMarkdown:
		return WriteMarkdown(w, c, "")
	case FormatText:
		return WriteText(w, c)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// WriteJSON writes v as JSON followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	data, err := shared.MarshalJSON(v, pretty)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// WriteCSV writes one row per track with columns: Position, ID, Title, Artist, Album, Duration, ISRC
func WriteCSV(w io.Writer, c *models.Collection) error {
	writer := csv.NewWriter(w)

	headers := []string{"Position", "ID", "Title", "Artist", "Album", "Duration", "ISRC"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range c.Tracks {
		record := []string{
			strconv.Itoa(track.Position),
			track.ID,
			track.Title,
			track.Artist,
			track.Album,
			strconv.Itoa(track.Duration),
			track.ISRC,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

// WriteMarkdown writes c as a Markdown document, linking coverFile when set.
func WriteMarkdown(w io.Writer, c *models.Collection, coverFile string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", c.Name)

	if coverFile != "" {
		fmt.Fprintf(&b, "![Cover](%s)\n\n", coverFile)
	}
	if c.Description != "" {
		fmt.Fprintf(&b, "**Description**: %s\n\n", c.Description)
	}
	if c.Owner != "" {
		fmt.Fprintf(&b, "**By**: %s\n", c.Owner)
	}

	fmt.Fprintf(&b, "**Tracks**: %d\n", len(c.Tracks))
	fmt.Fprintf(&b, "**Length**: %s\n", shared.FormatDuration(c.Duration()))
	if c.Kind == "playlist" {
		fmt.Fprintf(&b, "**Visibility**: %s\n", shared.VisibilityString(c.Public))
	}

	b.WriteString("\n## Tracks\n\n")
	for _, track := range c.Tracks {
		album := ""
		if track.Album != "" && track.Album != c.Name {
			album = fmt.Sprintf(" (%s)", track.Album)
		}
		fmt.Fprintf(&b, "%d. %s - %s%s [%s]\n", track.Position, track.Artist, track.Title, album, shared.FormatDuration(track.Duration))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write Markdown: %w", err)
	}
	return nil
}

// WriteText writes c as a numbered plain text list.
func WriteText(w io.Writer, c *models.Collection) error {
	var b strings.Builder

	label := "Collection"
	if c.Kind != "" {
		label = strings.ToUpper(c.Kind[:1]) + c.Kind[1:]
	}
	fmt.Fprintf(&b, "%s: %s\n", label, c.Name)
	if c.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", c.Description)
	}
	fmt.Fprintf(&b, "Tracks: %d\n\n", len(c.Tracks))

	for _, track := range c.Tracks {
		fmt.Fprintf(&b, "%d. %s - %s\n", track.Position, track.Artist, track.Title)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write text: %w", err)
	}
	return nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidArgument)
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}

// ExportResult lists the files written by [Export].
type ExportResult struct {
	Directory string
	Files     []string
}

// Exporter writes collections to disk.
type Exporter struct {
	// HTTPClient downloads Markdown cover images. nil disables downloading.
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Export writes c under dir in format f. dir defaults to the working directory.
//
// Files are named after the collection ID:
//   - json: {id}.json
//   - csv: {id}_tracks.csv and {id}_metadata.json
//   - text: {id}_tracks.txt
//   - markdown: {id}/README.md and, when the cover downloads, {id}/cover.jpg
func (e *Exporter) Export(ctx context.Context, c *models.Collection, f Format, dir string) (*ExportResult, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	base := c.ID
	if base == "" {
		base = c.Kind
	}
	result := &ExportResult{Directory: dir}

	switch f {
	case FormatJSON:
		path := filepath.Join(dir, base+".json")
		if err := writeFile(path, func(w io.Writer) error { return WriteJSON(w, c, true) }); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, path)
	case FormatCSV:
		tracks := filepath.Join(dir, base+"_tracks.csv")
		if err := writeFile(tracks, func(w io.Writer) error { return WriteCSV(w, c) }); err != nil {
			return nil, err
		}
		meta := filepath.Join(dir, base+"_metadata.json")
		if err := writeFile(meta, func(w io.Writer) error { return WriteJSON(w, MetadataOf(c), true) }); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, tracks, meta)
	case FormatText:
		path := filepath.Join(dir, base+"_tracks.txt")
		if err := writeFile(path, func(w io.Writer) error { return WriteText(w, c) }); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, path)
	case FormatMarkdown:
		result.Directory = filepath.Join(dir, base)
		if err := os.MkdirAll(result.Directory, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}

		cover := e.saveCover(ctx, c.ImageURL, result.Directory)
		if cover != "" {
			result.Files = append(result.Files, filepath.Join(result.Directory, cover))
		}

		readme := filepath.Join(result.Directory, "README.md")
		if err := writeFile(readme, func(w io.Writer) error { return WriteMarkdown(w, c, cover) }); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, readme)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}

	return result, nil
}

// saveCover downloads url into dir and returns the file name, or "" when skipped or failed.
func (e *Exporter) saveCover(ctx context.Context, url, dir string) string {
	if url == "" || e.HTTPClient == nil {
		return ""
	}

	data, err := DownloadImage(ctx, e.HTTPClient, url)
	if err != nil {
		e.warn("failed to download cover image", "error", err)
		return ""
	}

	name := "cover.jpg"
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		e.warn("failed to save cover image", "error", err)
		return ""
	}
	return name
}

func (e *Exporter) warn(msg string, keyvals ...any) {
	if e.Logger != nil {
		e.Logger.Warn(msg, keyvals...)
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

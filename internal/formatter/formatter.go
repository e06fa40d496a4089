// package formatter provides functions to export the song list to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/judgeLC/VupPlaylist-sub000/internal/models"
)

// ExportToCSV converts a snapshot's song list to CSV format with columns: ID, Title, Artist, Genre, Note, AddedDate
func ExportToCSV(snapshot *models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Genre", "Note", "AddedDate"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	genres := genreNames(snapshot.Genres)
	for _, song := range snapshot.Songs {
		record := []string{
			strconv.FormatInt(song.ID, 10),
			song.Title,
			song.Artist,
			genreLabel(genres, song.Genre),
			song.Note,
			song.AddedDate,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a snapshot to Markdown format, grouping songs by genre
func ExportToMarkdown(snapshot *models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	profile := profileOrDefault(snapshot)
	title := profile.WebsiteTitle
	if title == "" {
		title = "歌单"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	if profile.VtuberName != "" {
		buf.WriteString(fmt.Sprintf("**主播**: %s\n", profile.VtuberName))
	}
	if profile.LiveRoomURL != "" {
		buf.WriteString(fmt.Sprintf("**直播间**: %s\n", profile.LiveRoomURL))
	}
	buf.WriteString(fmt.Sprintf("**曲目**: %d\n\n", len(snapshot.Songs)))

	genres := genreNames(snapshot.Genres)
	for _, genre := range snapshot.Genres {
		songs := songsInGenre(snapshot.Songs, genre.ID)
		if len(songs) == 0 {
			continue
		}
		buf.WriteString(fmt.Sprintf("## %s\n\n", genre.Name))
		for i, song := range songs {
			notePart := ""
			if song.Note != "" {
				notePart = fmt.Sprintf(" (%s)", song.Note)
			}
			buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, song.Artist, song.Title, notePart))
		}
		buf.WriteString("\n")
	}

	orphans := songsWithoutGenre(snapshot.Songs, genres)
	if len(orphans) > 0 {
		buf.WriteString("## 未分类\n\n")
		for i, song := range orphans {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a snapshot to plain text format, one song per line
func ExportToText(snapshot *models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	title := profileOrDefault(snapshot).WebsiteTitle
	if title == "" {
		title = "歌单"
	}
	buf.WriteString(fmt.Sprintf("Playlist: %s\n", title))
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(snapshot.Songs)))

	for i, song := range snapshot.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
	}

	return buf.Bytes(), nil
}

// ExportToJSON serializes the full snapshot with indentation
func ExportToJSON(snapshot *models.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snapshot, "", "  ")
}

func profileOrDefault(snapshot *models.Snapshot) models.Profile {
	if snapshot.Profile == nil {
		return models.Profile{}
	}
	return *snapshot.Profile
}

func genreNames(genres []models.Genre) map[string]string {
	names := make(map[string]string, len(genres))
	for _, g := range genres {
		names[g.ID] = g.Name
	}
	return names
}

func genreLabel(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

func songsInGenre(songs []models.Song, genreID string) []models.Song {
	var out []models.Song
	for _, s := range songs {
		if s.Genre == genreID {
			out = append(out, s)
		}
	}
	return out
}

func songsWithoutGenre(songs []models.Song, names map[string]string) []models.Song {
	var out []models.Song
	for _, s := range songs {
		if _, ok := names[s.Genre]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// WriteExport writes the snapshot to a file in the requested format.
//
// Supported formats: csv, markdown, text, json. An empty filepath defaults
// to playlist.{ext}.
func WriteExport(snapshot *models.Snapshot, format, filepath string) (string, error) {
	var data []byte
	var ext string
	var err error

	switch format {
	case "csv":
		data, err = ExportToCSV(snapshot)
		ext = ".csv"
	case "markdown", "md":
		data, err = ExportToMarkdown(snapshot)
		ext = ".md"
	case "text", "txt":
		data, err = ExportToText(snapshot)
		ext = ".txt"
	case "json":
		data, err = ExportToJSON(snapshot)
		ext = ".json"
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s export: %w", format, err)
	}

	if filepath == "" {
		filepath = "playlist" + ext
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}

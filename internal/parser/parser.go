// Package parser converts uploaded documents (pdf, docx, pptx, xlsx, ods,
// txt) into overlapping text chunks carrying provenance metadata. Chunks
// produced here are the atomic unit the rest of the pipeline scores, embeds,
// and feeds to the model.
package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/GodReaper/PrashnaRachnaAI/internal/config"
	"github.com/GodReaper/PrashnaRachnaAI/internal/helper"
	"github.com/GodReaper/PrashnaRachnaAI/internal/models"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
	defaultPageNumber   = 1
)

// page is an intermediate unit of extracted text before chunking.
type page struct {
	text   string
	number int
}

type docParser struct {
	documentID string
	filename   string
	chunkSize  int
	overlap    int
}

// ParseDocument extracts text from the file, normalizes it to markdown, and
// splits it into chunks tagged with the given document id.
func ParseDocument(filePath, documentID string, cfg *config.Config) ([]models.Chunk, error) {
	chunkSize, overlap := defaultChunkSize, defaultChunkOverlap
	if cfg != nil && cfg.RAG.ChunkSize > 0 {
		chunkSize = cfg.RAG.ChunkSize
	}
	if cfg != nil && cfg.RAG.ChunkOverlap > 0 {
		overlap = cfg.RAG.ChunkOverlap
	}

	p := docParser{
		documentID: documentID,
		filename:   filepath.Base(filePath),
		chunkSize:  chunkSize,
		overlap:    overlap,
	}

	var (
		pages []page
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".pdf":
		pages, err = loadPDF(filePath)
	case ".docx":
		pages, err = loadDOCX(filePath)
	case ".pptx":
		pages, err = loadPPTX(filePath)
	case ".xlsx":
		pages, err = loadXLSX(filePath)
	case ".ods":
		pages, err = loadODS(filePath)
	case ".txt":
		pages, err = loadText(filePath)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
	if err != nil {
		return nil, err
	}

	var chunks []models.Chunk
	index := 0
	for _, pg := range pages {
		markdown, err := convertToMarkdown(pg.text)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(markdown) == "" {
			continue
		}
		pageChunks := p.chunksForPage(markdown, pg.number, index)
		index += len(pageChunks)
		chunks = append(chunks, pageChunks...)
	}
	return chunks, nil
}

func loadPDF(filePath string) ([]page, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	var pages []page
	for i := 1; i <= reader.NumPage(); i++ {
		text, err := reader.Page(i).GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page{text: text, number: i})
	}
	return pages, nil
}

func loadDOCX(filePath string) ([]page, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	// DOCX carries no page numbers; the whole body counts as page 1.
	content := r.Editable().GetContent()
	return []page{{text: content, number: defaultPageNumber}}, nil
}

func loadPPTX(filePath string) ([]page, error) {
	f, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []page
	slide := 0
	for _, file := range f.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		slide++
		pages = append(pages, page{text: extractTextFromXML(string(data)), number: slide})
	}
	return pages, nil
}

func loadXLSX(filePath string) ([]page, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, err
	}

	var pages []page
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		pages = append(pages, page{text: text.String(), number: sheetNum + 1})
	}
	return pages, nil
}

func loadODS(filePath string) ([]page, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []page
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
		pages = append(pages, page{text: text.String(), number: sheetNum + 1})
	}
	return pages, nil
}

func loadText(filePath string) ([]page, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return []page{{text: string(data), number: defaultPageNumber}}, nil
}

func convertToMarkdown(text string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return strings.Trim(buf.String(), " \t\n\r"), nil
}

func extractTextFromXML(xmlContent string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		if endIdx := strings.Index(part, "</a:t>"); endIdx >= 0 {
			text.WriteString(part[:endIdx] + " ")
		}
	}
	return text.String()
}

// chunksForPage splits page text and wraps each piece with provenance.
// startIndex keeps chunk indexes continuous across pages.
func (p docParser) chunksForPage(content string, pageNumber, startIndex int) []models.Chunk {
	var chunks []models.Chunk
	for i, text := range splitText(content, p.chunkSize, p.overlap) {
		index := startIndex + i
		chunks = append(chunks, models.Chunk{
			ID:   helper.ChunkID(p.documentID, index),
			Text: text,
			Metadata: models.ChunkMetadata{
				DocumentID:     p.documentID,
				Filename:       p.filename,
				PageNumber:     pageNumber,
				ChunkIndex:     index,
				WordCount:      len(strings.Fields(text)),
				CharacterCount: len(text),
			},
		})
	}
	return chunks
}

// splitText chunks content into maxChars pieces with overlapChars of overlap,
// preferring to break at a space or sentence end near the boundary.
func splitText(content string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		return nil
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}

	content = strings.TrimSpace(content)
	if len(content) == 0 {
		return nil
	}
	if len(content) <= maxChars {
		return []string{content}
	}

	var chunks []string
	start := 0
	for start < len(content) {
		end := min(start+maxChars, len(content))

		// Look for a clean break within the last 10% of the chunk.
		if end < len(content) {
			lookBack := min(maxChars/10, end-start)
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if content[i] == ' ' || content[i] == '\n' || content[i] == '.' {
					end = i + 1
					break
				}
			}
		}

		if chunk := strings.TrimSpace(content[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		start += maxChars - overlapChars
		if start >= len(content) {
			break
		}
	}
	return chunks
}

package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
)

// workbookRows flattens the first sheet of an XLS workbook into the same
// row shape the CSV tokenizer emits, so column inference works unchanged.
func workbookRows(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}

	cells := workbook.ReadAllCells(2000)
	if len(cells) == 0 {
		return nil, fmt.Errorf("no data found in sheet")
	}

	var rows [][]string
	for _, raw := range cells {
		row := make([]string, len(raw))
		blank := true
		for i, cell := range raw {
			row[i] = strings.TrimSpace(cell)
			if row[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

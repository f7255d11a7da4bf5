package parser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/amielsh/centsible/pkg/models"
)

// Parser turns raw statement bytes into normalized transactions. It holds no
// per-file state, so one instance can process any number of statements.
type Parser struct {
	logger      *log.Logger
	categorizer *Categorizer
}

func New(logger *log.Logger) *Parser {
	return &Parser{
		logger:      logger,
		categorizer: NewCategorizer(),
	}
}

// Categorizer exposes the keyword tables so callers can merge user rules.
func (p *Parser) Categorizer() *Categorizer {
	return p.categorizer
}

// ParseStatement parses a statement file into transactions. XLS workbooks
// are flattened into rows first; everything else is treated as CSV text.
// A statement that produces zero usable rows is an error; per-row problems
// are not.
func (p *Parser) ParseStatement(data []byte, filename string) ([]models.Transaction, error) {
	var rows [][]string
	if strings.HasSuffix(strings.ToLower(filename), ".xls") {
		var err error
		rows, err = workbookRows(data)
		if err != nil {
			return nil, err
		}
	} else {
		rows = Tokenize(string(data))
	}

	transactions := p.transactionsFromRows(rows)
	if len(transactions) == 0 {
		return nil, fmt.Errorf("no valid rows found in %s", filename)
	}

	p.logger.Debug("parsed statement", "filename", filename, "rows", len(rows), "transactions", len(transactions))
	return transactions, nil
}

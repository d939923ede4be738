package directory

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// FileSource reads a corp_list.json array of {"corp_code", "name"}
type FileSource struct {
	Path string
}

type fileEntry struct {
	Code     string `json:"corp_code"`
	Name     string `json:"name"`
	CorpName string `json:"corp_name"`
	Stock    string `json:"stock_code"`
}

func (s *FileSource) Name() string { return "file:" + s.Path }

func (s *FileSource) Load(_ context.Context) ([]Company, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", s.Path)
	}
	var entries []fileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, eris.Wrapf(err, "parse %s", s.Path)
	}

	companies := make([]Company, 0, len(entries))
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = e.CorpName
		}
		companies = append(companies, Company{Code: PadCode(e.Code), Name: name, StockCode: e.Stock})
	}
	return companies, nil
}

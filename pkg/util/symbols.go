package util

import (
    "encoding/csv"
    "fmt"
    "math/rand"
    "os"
    "strings"
    "time"
)

// NormalizeSymbols accepts a comma separated string or a list of values and
// returns trimmed, uppercased symbols. Nil when nothing usable was given.
func NormalizeSymbols(value interface{}) []string {
    var parts []string
    switch v := value.(type) {
    case nil:
        return nil
    case string:
        parts = strings.Split(v, ",")
    case []string:
        parts = v
    case []interface{}:
        for _, item := range v {
            parts = append(parts, fmt.Sprintf("%v", item))
        }
    default:
        return nil
    }
    symbols := make([]string, 0, len(parts))
    for _, p := range parts {
        s := strings.ToUpper(strings.TrimSpace(p))
        if s != "" {
            symbols = append(symbols, s)
        }
    }
    if len(symbols) == 0 {
        return nil
    }
    return symbols
}

// LoadSymbolsCSV reads symbols from a CSV file. If the header has a
// "symbol" or "ticker" column that column is used, otherwise the first
// column (header row included). Duplicates are dropped, order preserved.
func LoadSymbolsCSV(path string) ([]string, error) {
    f, err := os.Open(path)
    if err != nil {
        return nil, fmt.Errorf("open symbols csv: %w", err)
    }
    defer f.Close()

    reader := csv.NewReader(f)
    reader.FieldsPerRecord = -1
    rows, err := reader.ReadAll()
    if err != nil {
        return nil, fmt.Errorf("read symbols csv: %w", err)
    }
    if len(rows) == 0 {
        return nil, nil
    }

    symbolIndex := -1
    for i, cell := range rows[0] {
        key := strings.ToLower(strings.TrimSpace(cell))
        if key == "symbol" || key == "ticker" {
            symbolIndex = i
            break
        }
    }
    start := 0
    if symbolIndex >= 0 {
        start = 1
    }

    seen := make(map[string]struct{})
    var symbols []string
    for _, row := range rows[start:] {
        if len(row) == 0 {
            continue
        }
        idx := 0
        if symbolIndex >= 0 {
            if symbolIndex >= len(row) {
                continue
            }
            idx = symbolIndex
        }
        symbol := strings.ToUpper(strings.TrimSpace(row[idx]))
        if symbol == "" {
            continue
        }
        if _, ok := seen[symbol]; ok {
            continue
        }
        seen[symbol] = struct{}{}
        symbols = append(symbols, symbol)
    }
    return symbols, nil
}

// SampleSymbols picks sampleSize symbols without replacement. A non-nil seed
// makes the sample reproducible.
func SampleSymbols(symbols []string, sampleSize int, seed *int64) ([]string, error) {
    if sampleSize <= 0 {
        return nil, fmt.Errorf("sample size must be positive")
    }
    if len(symbols) < sampleSize {
        return nil, fmt.Errorf("not enough symbols (%d) to sample %d entries", len(symbols), sampleSize)
    }
    var rng *rand.Rand
    if seed != nil {
        rng = rand.New(rand.NewSource(*seed))
    } else {
        rng = rand.New(rand.NewSource(time.Now().UnixNano()))
    }
    perm := rng.Perm(len(symbols))
    picked := make([]string, 0, sampleSize)
    for _, idx := range perm[:sampleSize] {
        picked = append(picked, symbols[idx])
    }
    return picked, nil
}

// Package inspect renders the raw contents of the document store for debugging.
package inspect

import (
	"dm-chat/repositories"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

const detailWidth = 60

// Row is one decoded store entry.
type Row struct {
	Key       string
	Type      string
	Timestamp string
	EntityID  string
	Detail    string
}

// Options selects what Dump prints.
type Options struct {
	Prefix      string
	WithIndexes bool
	Limit       int
	NoColor     bool
}

// Describe decodes one key/value pair into a row. Unknown values are shown by size.
func Describe(key string, val []byte) Row {
	row := Row{Key: key, Type: typeOf(key)}
	if row.Type == "INDEX" {
		row.Detail = "-> " + string(val)
		return row
	}

	var doc struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		ChatID   string `json:"chatId"`
		SenderID string `json:"senderId"`
		Text     string `json:"text"`
		Members  []struct {
			UserID string `json:"userId"`
		} `json:"members"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
	if err := json.Unmarshal(val, &doc); err != nil {
		row.Detail = fmt.Sprintf("%d bytes", len(val))
		return row
	}

	row.EntityID = doc.ID
	row.Timestamp = doc.CreatedAt.UTC().Format(time.RFC3339)
	switch row.Type {
	case "USER":
		row.Detail = fmt.Sprintf("%s <%s>", doc.Name, doc.Email)
	case "CHAT":
		members := make([]string, 0, len(doc.Members))
		for _, m := range doc.Members {
			members = append(members, short(m.UserID))
		}
		row.Timestamp = doc.UpdatedAt.UTC().Format(time.RFC3339)
		row.Detail = "members " + strings.Join(members, ",")
	case "MESSAGE":
		row.Detail = fmt.Sprintf("%s: %s", short(doc.SenderID), truncate(doc.Text, detailWidth))
	}
	return row
}

// DebugMapper adapts Describe to the sdk debug server.
func DebugMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	described := Describe(key, val)
	row.Type = described.Type
	row.Detail = described.Detail
	return row
}

// Dump writes a table of the store entries matching opts. It returns the number of rows written.
func Dump(w io.Writer, db *badger.DB, opts Options) (int, error) {
	var rows []Row
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(opts.Prefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if !opts.WithIndexes && strings.HasPrefix(key, repositories.PrefixIndex) {
				continue
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read %s: %w", key, err)
			}
			rows = append(rows, Describe(key, val))
			if opts.Limit > 0 && len(rows) >= opts.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	header := fmt.Sprintf("%d entries under %q", len(rows), opts.Prefix)
	if opts.NoColor {
		fmt.Fprintln(w, header)
	} else {
		fmt.Fprintln(w, color.Cyan.Sprint(header))
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Entity ID", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	for _, r := range rows {
		table.Append([]string{r.Key, r.Type, r.Timestamp, short(r.EntityID), r.Detail})
	}
	table.Render()
	return len(rows), nil
}

func typeOf(key string) string {
	switch {
	case strings.HasPrefix(key, repositories.PrefixIndex):
		return "INDEX"
	case strings.HasPrefix(key, repositories.PrefixUser):
		return "USER"
	case strings.HasPrefix(key, repositories.PrefixChat):
		return "CHAT"
	case strings.HasPrefix(key, repositories.PrefixMessage):
		return "MESSAGE"
	default:
		return "OTHER"
	}
}

// short keeps the first 8 characters of an id for readability.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/agri-advisor/internal/knowledge"
)

var _ knowledge.Source = (*Store)(nil)

// #region collections
// collection maps a knowledge category onto its table and text columns.
type collection struct {
	table    string
	title    string
	body     string
	summary  string // empty when the table has none
	practice bool
}

var collections = map[knowledge.Category]collection{
	knowledge.CategoryKnowledge: {table: "agricultural_knowledge", title: "title", body: "content", summary: "summary"},
	knowledge.CategoryFAQ:       {table: "agricultural_faqs", title: "question", body: "answer"},
	knowledge.CategoryPractice:  {table: "agricultural_practices", title: "title", body: "description", summary: "summary", practice: true},
}

func (c collection) selectList() string {
	summary, difficulty, steps := "''", "''", "NULL, NULL"
	if c.summary != "" {
		summary = c.summary
	}
	if c.practice {
		difficulty, steps = "difficulty", "steps, benefits"
	} else if c.table == "agricultural_knowledge" {
		difficulty = "difficulty"
	}
	return fmt.Sprintf("id, category_id, %s, %s, %s, tags, keywords, region, crop_type, %s, %s",
		c.title, c.body, summary, difficulty, steps)
}

func (c collection) searchColumns() []string {
	cols := []string{c.title, c.body, "tags", "keywords"}
	if c.summary != "" {
		cols = append(cols, c.summary)
	}
	return cols
}

// #endregion collections

// #region candidates
// Candidates returns active records in category whose text or tags mention any keyword.
func (s *Store) Candidates(ctx context.Context, category knowledge.Category, keywords []string, limit int) ([]knowledge.Record, error) {
	col, ok := collections[category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	if len(keywords) == 0 {
		return nil, nil
	}

	var (
		conds []string
		args  []any
	)
	for _, kw := range keywords {
		for _, c := range col.searchColumns() {
			conds = append(conds, c+` LIKE ? ESCAPE '\'`)
			args = append(args, likePattern(kw))
		}
	}
	args = append(args, limitOrAll(limit))

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE is_active = 1 AND (%s) ORDER BY id LIMIT ?`,
		col.selectList(), col.table, strings.Join(conds, " OR "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", col.table, err)
	}
	defer rows.Close()

	var records []knowledge.Record
	for rows.Next() {
		var (
			r                                                 knowledge.Record
			categoryID, summary, region, cropType, difficulty sql.NullString
			tags, keys, steps, benefits                       sql.NullString
		)
		if err := rows.Scan(&r.ID, &categoryID, &r.Title, &r.Body, &summary, &tags, &keys,
			&region, &cropType, &difficulty, &steps, &benefits); err != nil {
			return nil, fmt.Errorf("scan %s: %w", col.table, err)
		}
		r.Category = category
		r.CategoryID = categoryID.String
		r.Summary = summary.String
		r.Tags = decodeList(tags)
		r.Keywords = decodeList(keys)
		r.Region = region.String
		r.CropType = cropType.String
		r.Difficulty = difficulty.String
		r.Steps = decodeList(steps)
		r.Benefits = decodeList(benefits)
		records = append(records, r)
	}
	return records, rows.Err()
}

// #endregion candidates

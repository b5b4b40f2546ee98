package repository

import (
	"database/sql"
	"strings"

	"gorm.io/gorm"

	"photoshare/models"
)

const (
	SortCreatedAt     = "created_at"
	SortAverageRating = "average_rating"
	SortViewCount     = "view_count"
	SortTitle         = "title"
)

// sortExpressions is the only source of column names that ever reach ORDER BY.
var sortExpressions = map[string]string{
	SortCreatedAt:     "photos.created_at",
	SortAverageRating: "rs.average_rating",
	SortViewCount:     "photos.view_count",
	SortTitle:         "photos.title",
}

type predicate struct {
	expr string
	args []any
}

// predicates is an ordered list of AND'd conditions with their bound values.
type predicates []predicate

func (p predicates) apply(tx *gorm.DB) *gorm.DB {
	for _, pr := range p {
		tx = tx.Where(pr.expr, pr.args...)
	}
	return tx
}

// catalogPredicates builds the WHERE part shared by List and CountMatching.
// User input is only ever bound, never concatenated. Needles are folded with
// models.Fold and compared against the folded columns written on save.
func catalogPredicates(dialect, search, location string) predicates {
	var result predicates
	if needle := models.Fold(strings.TrimSpace(search)); needle != "" {
		result = append(result, predicate{
			expr: "(" + containsExpr(dialect, "photos.title_folded", "needle") +
				" OR " + containsExpr(dialect, "photos.caption_folded", "needle") +
				" OR " + containsExpr(dialect, "photos.location_folded", "needle") +
				" OR EXISTS (SELECT 1 FROM photo_people pp WHERE pp.photo_id = photos.id AND pp.name_folded = @needle))",
			args: []any{sql.Named("needle", needle)},
		})
	}
	if place := models.Fold(strings.TrimSpace(location)); place != "" {
		result = append(result, predicate{
			expr: containsExpr(dialect, "photos.location_folded", "place"),
			args: []any{sql.Named("place", place)},
		})
	}
	return result
}

// containsExpr renders a literal substring test. LIKE is avoided so % and _
// in the needle carry no meaning. gorm expands each @param occurrence into
// its own placeholder, all bound to the same value.
func containsExpr(dialect, column, param string) string {
	if dialect == "postgres" {
		return "STRPOS(COALESCE(" + column + ", ''), @" + param + ") > 0"
	}
	return "INSTR(COALESCE(" + column + ", ''), @" + param + ") > 0"
}

// ResolveSort maps untrusted sort input to an allow-listed key and direction.
func ResolveSort(sortBy, sortOrder string) (key string, ascending bool) {
	key = strings.TrimSpace(sortBy)
	if _, ok := sortExpressions[key]; !ok {
		key = SortCreatedAt
	}
	return key, strings.EqualFold(strings.TrimSpace(sortOrder), "ASC")
}

func orderClause(filter models.CatalogFilter) string {
	key, ascending := ResolveSort(filter.SortBy, filter.SortOrder)
	dir := " DESC"
	if ascending {
		dir = " ASC"
	}
	order := sortExpressions[key] + dir + ", photos.id" + dir
	if key == SortAverageRating {
		// unrated photos go last in both directions
		order = "CASE WHEN rs.average_rating IS NULL THEN 1 ELSE 0 END, " + order
	}
	return order
}

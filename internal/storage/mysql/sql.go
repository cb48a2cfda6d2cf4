package mysql

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // dialect registration

	"hotel_listing/internal/domain"
)

const dialectMySQL = "mysql"

// tables holds the prefixed WordPress table names (wp_users, wp_usermeta, ...).
type tables struct {
	users, usermeta, posts, postmeta string
}

func newTables(prefix string) tables {
	if prefix == "" {
		prefix = "wp_"
	}
	return tables{
		users:    prefix + "users",
		usermeta: prefix + "usermeta",
		posts:    prefix + "posts",
		postmeta: prefix + "postmeta",
	}
}

func builder() goqu.DialectWrapper { return goqu.Dialect(dialectMySQL) }

// -----------------------------------------------------------------------------
// OWNERS
// -----------------------------------------------------------------------------

func (t tables) allOwnersQuery() (string, []any, error) {
	return builder().
		From(t.users).
		Select("ID", "display_name").
		Order(goqu.C("ID").Asc()).
		Prepared(true).
		ToSQL()
}

func (t tables) ownersAfterQuery(afterID int64, limit int) (string, []any, error) {
	return builder().
		From(t.users).
		Select("ID", "display_name").
		Where(goqu.C("ID").Gt(afterID)).
		Order(goqu.C("ID").Asc()).
		Limit(uint(limit)).
		Prepared(true).
		ToSQL()
}

// -----------------------------------------------------------------------------
// USERMETA
// -----------------------------------------------------------------------------

// attributeQuery returns the oldest non-null row for the key. A NULL row never
// shadows a later value, and a key whose only rows are NULL reads as absent.
// attributesForQuery and postMetaQuery apply the same rule.
func (t tables) attributeQuery(ownerID int64, key string) (string, []any, error) {
	return builder().
		From(t.usermeta).
		Select("meta_value").
		Where(goqu.Ex{"user_id": ownerID, "meta_key": key}, goqu.C("meta_value").IsNotNull()).
		Order(goqu.C("umeta_id").Asc()).
		Limit(1).
		Prepared(true).
		ToSQL()
}

// Ordered by umeta_id so the first non-null row per (user_id, meta_key) is the one Attribute returns.
func (t tables) attributesForQuery(ownerIDs []int64, keys []string) (string, []any, error) {
	return builder().
		From(t.usermeta).
		Select("user_id", "meta_key", "meta_value").
		Where(goqu.Ex{"user_id": ownerIDs, "meta_key": keys}, goqu.C("meta_value").IsNotNull()).
		Order(goqu.C("umeta_id").Asc()).
		Prepared(true).
		ToSQL()
}

// -----------------------------------------------------------------------------
// POSTS
// -----------------------------------------------------------------------------

func (t tables) ownedItemsQuery(ownerIDs []int64, itemType, status string) (string, []any, error) {
	return builder().
		From(t.posts).
		Select("post_author", "ID", "post_title").
		Where(goqu.Ex{"post_author": ownerIDs, "post_type": itemType, "post_status": status}).
		Order(goqu.C("ID").Asc()).
		Prepared(true).
		ToSQL()
}

// COUNT/AVG of the rating postmeta over review posts, grouped by author.
func (t tables) reviewAggregateQuery(ownerIDs []int64) (string, []any, error) {
	return builder().
		From(goqu.T(t.posts).As("p")).
		Join(goqu.T(t.postmeta).As("m"), goqu.On(goqu.Ex{"p.ID": goqu.I("m.post_id")})).
		Select(
			goqu.I("p.post_author"),
			goqu.COUNT(goqu.I("m.meta_value")).As("tot"),
			goqu.AVG(goqu.I("m.meta_value")).As("moy"),
		).
		Where(goqu.Ex{
			"p.post_author": ownerIDs,
			"p.post_type":   domain.PostTypeReview,
			"m.meta_key":    domain.MetaRating,
		}).
		GroupBy(goqu.I("p.post_author")).
		Prepared(true).
		ToSQL()
}

// -----------------------------------------------------------------------------
// ROOMS
// -----------------------------------------------------------------------------

func (t tables) roomPostsQuery(ids []int64) (string, []any, error) {
	return builder().
		From(t.posts).
		Select("ID", "post_title").
		Where(goqu.Ex{"ID": ids, "post_type": domain.PostTypeRoom}).
		Prepared(true).
		ToSQL()
}

func (t tables) postMetaQuery(postIDs []int64, keys []string) (string, []any, error) {
	where := goqu.Ex{"post_id": postIDs}
	if len(keys) > 0 {
		where["meta_key"] = keys
	}
	return builder().
		From(t.postmeta).
		Select("post_id", "meta_key", "meta_value").
		Where(where, goqu.C("meta_value").IsNotNull()).
		Order(goqu.C("meta_id").Asc()).
		Prepared(true).
		ToSQL()
}

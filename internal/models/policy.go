package models

// ReferentialAction is what the store does to dependent rows when the
// referenced row is deleted.
type ReferentialAction string

const (
	Cascade ReferentialAction = "CASCADE"
	SetNull ReferentialAction = "SET NULL"
)

// ReferentialPolicy describes one foreign key relationship.
type ReferentialPolicy struct {
	Table      string
	Column     string
	References string
	OnDelete   ReferentialAction
}

// ReferentialPolicies enumerates every relationship in the schema. It must
// stay in sync with the constraint tags on the model structs.
var ReferentialPolicies = []ReferentialPolicy{
	{Table: "posts", Column: "author_id", References: "users", OnDelete: Cascade},
	{Table: "posts", Column: "group_id", References: "post_groups", OnDelete: SetNull},
	{Table: "comments", Column: "post_id", References: "posts", OnDelete: Cascade},
	{Table: "comments", Column: "author_id", References: "users", OnDelete: Cascade},
	{Table: "follows", Column: "user_id", References: "users", OnDelete: Cascade},
	{Table: "follows", Column: "author_id", References: "users", OnDelete: Cascade},
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Group{},
		&Post{},
		&Comment{},
		&Follow{},
	}
}

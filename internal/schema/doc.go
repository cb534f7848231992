// Package schema implements jsonapi.Schema for tagged Go structs.
//
// Attribute names come from `json` tags and validation rules from `validate`
// tags (github.com/go-playground/validator/v10). The `jsonapi` tag marks the
// resource id field (`jsonapi:"id"`) and server-generated attributes that are
// serialized but never loaded from a request (`jsonapi:"readonly"`):
//
//	type Memo struct {
//	    ID        uuid.UUID `json:"-" jsonapi:"id"`
//	    Text      string    `json:"text" validate:"required,max=10000"`
//	    CreatedAt time.Time `json:"created_at" jsonapi:"readonly"`
//	}
//
//	memos := schema.New[Memo]("memos")
package schema

package model

type Record struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  int64  `json:"category_id"`
	MediaTypeID int64  `json:"media_type_id"`
	StatusID    int64  `json:"status_id"`
	Ctime       int64  `json:"ctime"`
	Mtime       int64  `json:"mtime"`
}

// RecordColumns is the full set of projectable record columns, in
// display order. visible_columns of a share link must be a subset.
var RecordColumns = []string{
	"id", "name", "description", "category_id", "media_type_id", "status_id", "ctime", "mtime",
}

func IsRecordColumn(name string) bool {
	for _, col := range RecordColumns {
		if col == name {
			return true
		}
	}
	return false
}

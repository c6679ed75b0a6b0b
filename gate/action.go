package gate

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionList    Action = "list"
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionExport  Action = "export"
	ActionExtract Action = "extract"
)

// Resource types guarded by the CRM.
const (
	ResourceApartment = "apartment"
	ResourceClient    = "client"
	ResourceOCR       = "ocr"
	ResourceProfile   = "profile"
	ResourceUser      = "user"
)

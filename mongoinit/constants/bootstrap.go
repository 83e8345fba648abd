package constant

// Values provisioned on first start of the application database.
const (
	DefaultDatabase   = "avoris-demo-db"
	DefaultUsername   = "avoris-user"
	DefaultPassword   = "avoris-password"
	DefaultRole       = "readWrite"
	DefaultCollection = "searches"
	DefaultIndexField = "searchId"
)

// MongoDB server error codes the provisioner distinguishes.
const (
	// CodeNamespaceExists is returned by create when the collection already exists.
	CodeNamespaceExists = 48
	// CodeUserAlreadyExists is returned by createUser for a duplicate username.
	CodeUserAlreadyExists = 51003
	// CodeIndexOptionsConflict is returned when an index with the same name but different options exists.
	CodeIndexOptionsConflict = 85
	// CodeIndexKeySpecsConflict is returned when an index with the same name but different keys exists.
	CodeIndexKeySpecsConflict = 86
	// CodeDuplicateKey is returned when a write violates a unique index.
	CodeDuplicateKey = 11000
)

package snippets

// FolderResponse is the flat collection returned for a project: every folder
// and every snippet, in server order.
type FolderResponse struct {
	Folders  []Folder  `json:"folders"`
	Contents []Snippet `json:"contents"`
}

// DeleteContentRequest asks the server to delete snippets in bulk
type DeleteContentRequest struct {
	ProjectRef string   `json:"project_ref"`
	IDs        []string `json:"ids"`
}

// DeleteContentResult lists the snippets the server actually deleted
type DeleteContentResult struct {
	DeletedIDs []string `json:"deleted_ids"`
}

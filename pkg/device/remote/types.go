package remote

type Ack struct {
	OK bool
}

type UploadRequest struct {
	Rows []string
}

type DrainResponse struct {
	Data []byte
}

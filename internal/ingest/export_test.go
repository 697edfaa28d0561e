package ingest

func (p *Pipeline) InUploadDir(src string) bool {
	return p.inUploadDir(src)
}

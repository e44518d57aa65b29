package source

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

func NewDownloader(progress io.Writer, logger *zap.Logger) *Downloader {
	return &Downloader{
		cli:      resty.New().SetDoNotParseResponse(true),
		progress: progress,
		log:      logger,
	}
}

type Downloader struct {
	cli      *resty.Client
	progress io.Writer
	log      *zap.Logger
}

func (d *Downloader) Get(url string) ([]byte, error) {
	resp, err := d.cli.R().Get(url)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.RawBody().Close()
	}()

	if resp.IsError() {
		return nil, errors.Errorf("download %s: %s", url, resp.Status())
	}

	bar := progressbar.NewOptions64(
		resp.RawResponse.ContentLength,
		progressbar.OptionSetWriter(d.progress),
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", url)),
		progressbar.OptionShowBytes(true),
	)

	var buf bytes.Buffer
	if _, err := io.Copy(io.MultiWriter(&buf, bar), resp.RawBody()); err != nil {
		return nil, err
	}

	d.log.With(zap.String("url", url), zap.Int("bytes", buf.Len())).Debug("downloaded")
	return buf.Bytes(), nil
}

package content

import (
	"context"
	"errors"
)

type repoMock struct {
	stored SiteContent
}

func NewMockContentRepo() *repoMock {
	return &repoMock{}
}

func (r *repoMock) Get(_ context.Context) (SiteContent, error) {
	if r.stored == nil {
		return SiteContent{}, nil
	}
	siteContent := SiteContent{}
	for field, value := range r.stored {
		siteContent[field] = value
	}
	return siteContent, nil
}

func (r *repoMock) Update(_ context.Context, partial SiteContent) error {
	if len(partial) == 0 {
		return errors.New("content update empty")
	}
	if r.stored == nil {
		r.stored = SiteContent{}
	}
	for field, value := range partial {
		r.stored[field] = value
	}
	return nil
}

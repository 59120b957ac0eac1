package actions

import (
	"context"

	"github.com/carson-networks/mymoney-server/internal/storage"
)

type SaveSetting struct {
	Key   string
	Value string
}

var _ IAction = (*SaveSetting)(nil)

func (s *SaveSetting) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Settings.Set(ctx, s.Key, s.Value)
}

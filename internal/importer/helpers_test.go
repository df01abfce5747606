package importer

import "strings"

func containsMsg(err error, substr string) bool {
	return err != nil && strings.Contains(err.Error(), substr)
}

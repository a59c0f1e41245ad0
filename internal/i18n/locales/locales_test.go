package locales

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessagesNotEmpty(t *testing.T) {
	assert.NotEmpty(t, MessagesEnUS)
	assert.NotEmpty(t, MessagesZhCN)
	assert.NotEmpty(t, MessagesJaJP)
}

// TestTranslationKeysConsistency verifies every key exists in all languages
func TestTranslationKeysConsistency(t *testing.T) {
	for key := range MessagesEnUS {
		_, ok := MessagesZhCN[key]
		assert.True(t, ok, "zh-CN missing key: %s", key)
		_, ok = MessagesJaJP[key]
		assert.True(t, ok, "ja-JP missing key: %s", key)
	}

	for key := range MessagesZhCN {
		_, ok := MessagesEnUS[key]
		assert.True(t, ok, "en-US missing key: %s", key)
	}

	for key := range MessagesJaJP {
		_, ok := MessagesEnUS[key]
		assert.True(t, ok, "en-US missing key: %s", key)
	}
}

func TestTranslationValuesNotEmpty(t *testing.T) {
	for lang, messages := range map[string]map[string]string{
		"en-US": MessagesEnUS,
		"zh-CN": MessagesZhCN,
		"ja-JP": MessagesJaJP,
	} {
		for key, value := range messages {
			assert.NotEmpty(t, value, "%s has empty value for key %s", lang, key)
		}
	}
}

func TestVerifyFailureMessageKeys(t *testing.T) {
	reasons := []string{
		"subject_not_detected",
		"subject_too_small",
		"multiple_subjects",
		"object_not_detected",
		"object_not_at_target",
	}

	for _, reason := range reasons {
		key := "verify.fail." + reason
		assert.Contains(t, MessagesEnUS, key)
		assert.Contains(t, MessagesZhCN, key)
		assert.Contains(t, MessagesJaJP, key)
	}
}

func TestCommonMessageKeys(t *testing.T) {
	keys := []string{"success", "common.success", "error", "unauthorized", "not_found"}
	for _, key := range keys {
		assert.Contains(t, MessagesEnUS, key)
	}
}

package notify

import (
	"fmt"
	"os"
)

// hookScript is the generated notification hook. Claude Code invokes it
// with the hook event JSON on stdin; the script forwards it to the webhook
// and never blocks the caller on failure.
const hookScript = `#!/bin/sh
# ccswitch notification hook - generated by 'ccswitch notify setup'
# Reads a hook event from stdin and forwards it to the configured webhook.

WEBHOOK_URL="%s"

payload=$(cat)
if [ -z "$payload" ]; then
  payload='{"event":"notification","source":"ccswitch"}'
fi

curl -fsS -m 10 \
  -H "Content-Type: application/json" \
  -d "$payload" \
  "$WEBHOOK_URL" >/dev/null 2>&1 || true
`

// WriteHookScript generates the hook script pointing at webhookURL.
func WriteHookScript(dir, webhookURL string) error {
	path := ScriptPath(dir)
	content := fmt.Sprintf(hookScript, webhookURL)
	if err := os.WriteFile(path, []byte(content), 0700); err != nil {
		return fmt.Errorf("failed to write hook script: %w", err)
	}
	return nil
}

package google

import (
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type callbackMessage struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	UserId  string `json:"userId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// The message is rendered in a JS context, html/template encodes it as JSON.
var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{if .Success}}Authentication successful{{else}}Authentication failed{{end}}</title></head>
<body>
{{if .Success}}<h2>Calendar access granted</h2><p>You can close this window.</p>
{{else}}<h2>Authentication failed</h2><p>{{.Error}}</p>
{{end}}<script>
  var message = {{.}};
  if (window.opener) {
    window.opener.postMessage(message, "*");
  }
  setTimeout(function () { window.close(); }, {{if .Success}}1500{{else}}4000{{end}});
</script>
</body>
</html>
`))

func renderCallback(w http.ResponseWriter, status int, msg callbackMessage) {
	msg.Type = "oauth-callback"
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := callbackPage.Execute(w, msg); err != nil {
		log.Errorf("failed to render OAuth callback page: %v", err)
	}
}

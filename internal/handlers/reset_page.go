package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

var resetPageTmpl = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Reset password</title>
</head>
<body>
  <h2>Choose a new password</h2>
  <form method="POST" action="/api/auth/reset" onsubmit="return submitReset(event)">
    <input type="hidden" id="token" value="{{.Token}}">
    <input type="password" id="password" placeholder="New password" required>
    <button type="submit">Reset password</button>
  </form>
  <p id="result"></p>
  <script>
    async function submitReset(e) {
      e.preventDefault();
      const resp = await fetch("/api/auth/reset", {
        method: "POST",
        headers: {"Content-Type": "application/json"},
        body: JSON.stringify({
          token: document.getElementById("token").value,
          password: document.getElementById("password").value
        })
      });
      const data = await resp.json();
      document.getElementById("result").textContent = data.message || data.error;
      return false;
    }
  </script>
</body>
</html>
`))

func renderResetPage(c *gin.Context, token string) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := resetPageTmpl.Execute(c.Writer, gin.H{"Token": token}); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

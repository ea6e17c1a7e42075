// Package handlers provides HTTP handlers for the ticket API.
package handlers

import "net/http"

const indexPage = `<!doctype html>
<html>
<head>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Dreams Clearance Tickets</title>
  <style>
    body{font-family:system-ui,Arial,sans-serif; padding:16px; max-width:720px; margin:auto;}
    .card{border:1px solid #ddd; border-radius:12px; padding:16px;}
    button{padding:12px 16px; border:0; border-radius:8px; background:#111; color:#fff; font-size:16px;}
    input[type=file]{width:100%;}
    label{display:block; margin:12px 0 6px;}
  </style>
</head>
<body>
  <h1>Dreams Clearance Tickets</h1>
  <div class="card">
    <form action="/generate" method="post" enctype="multipart/form-data">
      <label>Upload list photo(s) or PDF:</label>
      <input name="files" type="file" accept="image/*,.pdf" capture="environment" multiple required>
      <label>Two tickets per sheet (A4 landscape)?</label>
      <input type="checkbox" name="two_up" value="1">
      <div style="margin-top:16px;">
        <button type="submit">Generate PDF</button>
      </div>
    </form>
    <p style="color:#888; font-size:14px; margin-top:12px;">
      Uses locked v7 layout + rounding (60% then rounded up to end in 4). Mattress lines auto-tick Ex-display.
    </p>
  </div>
</body>
</html>
`

// Index serves the upload form.
func Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPage))
}

// Package http exposes the site backend over net/http.
//
// Public routes mount under /api:
//   - Pages: GET /pages/{slug}, GET /pages/{slug}/sections/{key}
//   - Directory: GET /institutions
//   - Forms: POST /contact, POST /submissions (multipart, file_N/form_type_N/description_N)
//
// Admin routes mount under /admin/api and require an admin bearer token:
//   - Content: /content, /content/{id}, /content/reload
//   - Page editor config: /pages, /pages/{slug}
//   - Submissions: /submissions, /submissions/{id}, /submissions/{id}/status,
//     /submissions/files/{id}/download
//   - Messages: /messages, /messages/unread-count, /messages/{id}/read, /messages/{id}
//   - Media: /media, /media/{name}
//   - Users: /users, /users/{id}/role, /users/{id}
package http

// Package services contains the file service of the filedesk client.
//
// Two variants implement FileService:
//   - backend: file bytes go to POST /files/ and the backend stores them.
//   - direct:  bytes go to object storage through a presigned URL and only
//     the record is registered with the backend.
//
// Both reject an upload with no file selected before touching the network.
package services

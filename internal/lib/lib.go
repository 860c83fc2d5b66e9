// Package lib groups the supporting packages that do not belong to a
// single layer:
//
//   - cache: Redis read-through cache of user records
//   - email: Resend client and the embedded HTML templates
//   - job: Asynq tasks that send the user notification emails
//   - utils: bcrypt password hashing
package lib

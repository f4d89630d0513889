package services

// Services defined in this package:
// - AuthService: registration, login, token refresh, password changes
// - UserService: profiles and per-user settings
// - RequestService: help request CRUD, listing, summary and status transitions
// - TagService: tag normalization, resolution and autosuggest
// - CategoryService: the staff-managed category taxonomy
// - FeedbackService: user feedback submission and staff review
// - NotificationService: in-app notifications and status change emails

package common

// TokenHeaderName is the HTTP header that carries the session token.
const TokenHeaderName = "token"

// EnvironmentTest disables outbound mail and enables destructive test helpers.
const EnvironmentTest = "test"

// Messages returned to API clients.
const (
	MsgRegisterFieldsRequired  = "Username, email and password are required to create a user."
	MsgInvalidEmail            = "Please fill a valid email address."
	MsgWeakPassword            = "Password must contain at least 3 lowercase letters, 2 uppercase letters, 2 digits, 1 special symbol and be at least 8 characters long."
	MsgUserAlreadyExists       = "User with such email or username already exists."
	MsgRegistered              = "You should receive an email on %s with verification link."
	MsgLoginFieldsRequired     = "Email and password are required."
	MsgUserNotFound            = "User with such email not found."
	MsgInvalidPassword         = "Invalid password."
	MsgNotVerified             = "Account is not verified."
	MsgTokenRequired           = "Auth token must be supplied."
	MsgResetFieldsRequired     = "Email, old password and new password are required."
	MsgInvalidOldPassword      = "Invalid old password."
	MsgVerificationTokenNeeded = "Verification token must be supplied."
	MsgVerificationNotFound    = "Verification request does not exist."
	MsgAlreadyVerified         = "Verification request was already performed."
	MsgCaseFieldsRequired      = "Title, description and reportedByName are required."
	MsgInvalidCountry          = "Invalid country."
	MsgCaseIDRequired          = "Case id is required."
	MsgCaseNotFound            = "Case not found."
	MsgOnlyReporterCanDelete   = "Only reporter can delete the case."
	MsgNoFilesOrLinks          = "No files or links specified."
	MsgTooManyFiles            = "No more than %d files can be uploaded at once."
	MsgFileCaseNotFound        = "File should be linked to existing case."
	MsgOnlyReporterCanLink     = "File can be linked only by case reporter."
	MsgNonTestEnvironment      = "Cannot be executed in non-test environment."
	MsgTooManyRequests         = "Too many requests, please try again later."
)

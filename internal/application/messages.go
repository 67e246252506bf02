package application

// User-facing messages. Login failures share one message on purpose.
const (
	msgValidationFailed    = "Validation failed"
	msgInternal            = "An internal error occurred, please try again later"
	msgRegisterOK          = "Register successful! Please check your email to verify your account."
	msgRegisterFailed      = "An error occurred while registering the user"
	msgLoginEmpty          = "Username or password cannot be null or empty"
	msgInvalidCredentials  = "Invalid username or password"
	msgLoginOK             = "Login successful"
	msgEmailNotFound       = "Email not found"
	msgOtcSent             = "OTP has been sent to your email"
	msgOtcRequired         = "OTP is required"
	msgOtcInvalid          = "Invalid or expired OTP"
	msgPasswordReset       = "Password has been reset successfully"
	msgAlreadyConfirmed    = "Email is already confirmed"
	msgEmailConfirmed      = "Email confirmed successfully"
	msgConfirmFailed       = "An error occurred while confirming the email"
	msgAccountNotFound     = "User not found"
	msgCurrentPasswordBad  = "Current password is incorrect"
	msgPasswordChanged     = "Password changed successfully"
	msgAvatarUpdated       = "Avatar updated successfully"
	msgAvatarRequired      = "Avatar file is required"
	msgProfileOK           = "Profile retrieved successfully"
	msgProfileUpdated      = "User updated successfully."
	msgUsernameTaken       = "Username already exists"
	msgEmailTaken          = "Email already exists"
	msgBirthdayInFuture    = "Birthday cannot be in the future"
	msgSearchOK            = "Search completed"
	msgAccountConflict     = "Username or email already exists"
	msgUsernameRequired    = "Username cannot be null or empty"
	msgSearchQueryRequired = "Search query is required"
)

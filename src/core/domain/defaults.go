package domain

// MaskedPunchline replaces the real punchline on joke listings served to
// anonymous callers. The substitution is part of the public API contract.
const MaskedPunchline = "Really funny punchline"

package email

const subjectHotLeadAlertFmt = "Hot lead: %s scored %.1f"

const subjectFollowUpReminderFmt = "Follow-up due: %s"

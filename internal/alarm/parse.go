package alarm

import (
	"strconv"
	"strings"
	"time"
)

// ParseTaskTime builds the local-timezone instant for a task from its
// wall-clock time ("HH:MM" or "HH:MM:SS") and calendar date ("YYYY-MM-DD").
// The seconds component is validated but the instant is always built at
// second zero. Returns ok=false for any malformed or out-of-range input.
func ParseTaskTime(timeLocal, dateLocal string) (time.Time, bool) {
	if timeLocal == "" || dateLocal == "" {
		return time.Time{}, false
	}

	timeParts := strings.Split(timeLocal, ":")
	if len(timeParts) < 2 || len(timeParts) > 3 {
		return time.Time{}, false
	}
	nums := make([]int, len(timeParts))
	for i, p := range timeParts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	hours, minutes := nums[0], nums[1]
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return time.Time{}, false
	}
	if len(nums) == 3 && (nums[2] < 0 || nums[2] > 59) {
		return time.Time{}, false
	}

	dateParts := strings.Split(dateLocal, "-")
	if len(dateParts) != 3 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(dateParts[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(dateParts[1])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dateParts[2])
	if err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, hours, minutes, 0, 0, time.Local), true
}

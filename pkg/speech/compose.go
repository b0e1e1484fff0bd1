package speech

import (
	"fmt"
	"strings"
)

// Compose builds a spoken reply from the agent's turn output, resolving
// device ids against devicesByID, matching original_source's
// speech.py:compose_speech branch for branch.
func Compose(out AgentOutput, devicesByID map[string]Device) string {
	t := strings.TrimSpace(out.Type)
	message := cleanText(out.Message)

	if t == "executed" && len(out.Actions) > 0 {
		summary := summarizeActions(out.Actions, devicesByID)
		ok, total, failures := summarizeResults(out.Result, out.Actions)

		var prefix string
		switch {
		case total > 0 && ok == total:
			prefix = "已提交执行："
		case total > 0:
			prefix = fmt.Sprintf("部分失败（成功 %d，失败 %d）：", ok, total-ok)
		default:
			prefix = "已提交执行："
		}

		parts := []string{prefix + summary}
		if len(failures) > 0 {
			parts = append(parts, strings.Join(failures, "；"))
		}
		if message != "" && !strings.Contains(parts[0], message) {
			parts = append(parts, message)
		}
		return joinStrippingTrailingPeriod(parts)
	}

	if t == "propose" && len(out.Actions) > 0 {
		summary := summarizeActions(out.Actions, devicesByID)
		if message == "" {
			return fmt.Sprintf("我准备执行：%s。请说确认或取消。", summary)
		}
		if summary != "" && !strings.Contains(message, summary) {
			return fmt.Sprintf("%s。我准备执行：%s。请说确认或取消。", message, summary)
		}
		return message
	}

	if message != "" {
		return message
	}
	return "好的。"
}

func joinStrippingTrailingPeriod(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		kept = append(kept, strings.TrimSuffix(p, "。"))
	}
	return strings.Join(kept, "。")
}

func summarizeActions(actions []AgentAction, devicesByID map[string]Device) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		did := a.DeviceID
		if did == "" {
			did = a.ID
		}
		did = strings.TrimSpace(did)
		action := strings.TrimSpace(a.Action)
		if did == "" || action == "" {
			continue
		}
		name := did
		if d, ok := devicesByID[did]; ok && d.Name != "" {
			name = d.Name
		}
		if phrase := actionToPhrase(action, name, a.Params); phrase != "" {
			parts = append(parts, phrase)
		}
	}
	if len(parts) == 0 {
		return "执行设备操作"
	}
	return strings.Join(parts, "，")
}

func summarizeResults(result *AgentResult, actions []AgentAction) (ok int, total int, failures []string) {
	if result == nil {
		return 0, len(actions), nil
	}
	items := result.Results
	ok = 0
	for _, r := range items {
		if r.OK {
			ok++
			continue
		}
		var errMsg string
		if r.Result != nil {
			if v, ok := r.Result["error"].(string); ok {
				errMsg = strings.TrimSpace(v)
			}
			if errMsg == "" {
				if v, ok := r.Result["message"].(string); ok {
					errMsg = strings.TrimSpace(v)
				}
			}
		}
		if errMsg == "" {
			errMsg = strings.TrimSpace(r.Error)
		}
		if errMsg == "" {
			errMsg = strings.TrimSpace(r.Message)
		}
		deviceID := strings.TrimSpace(r.DeviceID)
		action := strings.TrimSpace(r.Action)
		if deviceID != "" || action != "" || errMsg != "" {
			failures = append(failures, fmt.Sprintf("失败（%s %s %s）", deviceID, action, errMsg))
		} else {
			failures = append(failures, "失败")
		}
	}
	return ok, len(items), failures
}

func actionToPhrase(action, deviceName string, params map[string]interface{}) string {
	switch action {
	case "turn_on":
		return fmt.Sprintf("打开%s", deviceName)
	case "turn_off":
		return fmt.Sprintf("关闭%s", deviceName)
	case "toggle":
		return fmt.Sprintf("切换%s", deviceName)
	case "set_brightness":
		if n, ok := numericParam(params, "brightness"); ok {
			return fmt.Sprintf("把%s亮度调到%d%%", deviceName, n)
		}
		return fmt.Sprintf("调整%s亮度", deviceName)
	case "set_cover_position":
		if n, ok := numericParam(params, "position"); ok {
			return fmt.Sprintf("把%s窗帘调到%d%%", deviceName, n)
		}
		return fmt.Sprintf("调整%s窗帘位置", deviceName)
	case "set_temperature":
		if n, ok := numericParam(params, "temperature"); ok {
			return fmt.Sprintf("把%s温度设为%d度", deviceName, n)
		}
		return fmt.Sprintf("调整%s温度", deviceName)
	case "set_hvac_mode":
		if v, ok := params["mode"].(string); ok && v != "" {
			return fmt.Sprintf("把%s模式设为%s", deviceName, v)
		}
		return fmt.Sprintf("调整%s模式", deviceName)
	default:
		return fmt.Sprintf("对%s执行%s", deviceName, action)
	}
}

// numericParam extracts an int/float64-typed param and truncates it to an
// int, matching Python's int(v) on an int|float value.
func numericParam(params map[string]interface{}, key string) (int, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

// cleanText collapses internal whitespace runs and trims the agent's
// message, matching speech.py's clean_text (distinct from the session
// controller's clean-user-text used on STT output).
func cleanText(text string) string {
	t := strings.TrimSpace(text)
	t = strings.ReplaceAll(t, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	for strings.Contains(t, "  ") {
		t = strings.ReplaceAll(t, "  ", " ")
	}
	return strings.TrimSpace(t)
}

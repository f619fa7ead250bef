package storage

import (
	"errors"

	"storyforge/internal/types"

	"gorm.io/gorm"
)

func SaveTask(task *types.StoryTask) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	// Upsert keyed by TaskId; the autoincrement Id is preserved on update
	var existing types.StoryTask
	result := DB.Where("task_id = ?", task.TaskId).First(&existing)

	if result.Error == nil {
		task.Id = existing.Id
		return DB.Save(task).Error
	} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return DB.Create(task).Error
	}
	return result.Error
}

func GetTask(taskId string) (*types.StoryTask, error) {
	if DB == nil {
		return nil, errors.New("database not initialized")
	}
	var task types.StoryTask
	if err := DB.Where("task_id = ?", taskId).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func GetTaskHistory(limit int) ([]types.StoryTask, error) {
	if DB == nil {
		return nil, errors.New("database not initialized")
	}
	var tasks []types.StoryTask
	if err := DB.Order("create_time desc").Limit(limit).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func DeleteTask(taskId string) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	if err := DB.Where("task_id = ?", taskId).Delete(&types.SceneImageRecord{}).Error; err != nil {
		return err
	}
	return DB.Where("task_id = ?", taskId).Delete(&types.StoryTask{}).Error
}

func SaveSceneImage(record *types.SceneImageRecord) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	return DB.Create(record).Error
}

func GetSceneImages(taskId string) ([]types.SceneImageRecord, error) {
	if DB == nil {
		return nil, errors.New("database not initialized")
	}
	var records []types.SceneImageRecord
	if err := DB.Where("task_id = ?", taskId).Order("segment_index asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// MarkStaleTasks marks all tasks still "processing" as failed. Called on
// startup to clean up runs interrupted by a previous shutdown.
func MarkStaleTasks() (int64, error) {
	if DB == nil {
		return 0, errors.New("database not initialized")
	}
	result := DB.Model(&types.StoryTask{}).
		Where("status = ?", types.StoryTaskStatusProcessing).
		Updates(map[string]interface{}{
			"status":      types.StoryTaskStatusFailed,
			"fail_reason": "Task interrupted by server restart",
			"status_msg":  "Interrupted",
		})
	return result.RowsAffected, result.Error
}
